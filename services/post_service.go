package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"feed-lab/errors"
	"feed-lab/moderation"
	"feed-lab/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IPostService interface {
	CreatePost(authorID, text string) (Post, error)
	ListPosts() ([]Post, error)
	GetPost(id string) (Post, error)
	DeletePost(id, requesterID string) error
	Like(postID, requesterID string) ([]repositories.Like, error)
	Unlike(postID, requesterID string) error
	Comment(postID, requesterID, text string) ([]repositories.Comment, error)
	DeleteComment(postID, commentID, requesterID string) error
	Search(ctx context.Context, terms string) ([]Post, error)
}

// Post is the read projection returned to the gateway: the stored document
// with the author reference resolved to a display name.
type Post struct {
	repositories.Post
	Author string `json:"author"`
}

type PostService struct {
	posts       repositories.IPostRepository
	users       repositories.IUserRepository
	index       *repositories.PostIndex
	moderator   moderation.Moderator
	maxTextLen  int
	searchLimit int
}

func NewPostService(posts repositories.IPostRepository, users repositories.IUserRepository,
	index *repositories.PostIndex, moderator moderation.Moderator,
	maxTextLen, searchLimit int) IPostService {
	return &PostService{
		posts:       posts,
		users:       users,
		index:       index,
		moderator:   moderator,
		maxTextLen:  maxTextLen,
		searchLimit: searchLimit,
	}
}

// CreatePost validates and censors the text, detects its language and
// persists a fresh document with empty like and comment sequences.
func (s *PostService) CreatePost(authorID, text string) (Post, error) {
	text, err := s.cleanText(text)
	if err != nil {
		return Post{}, err
	}

	post := repositories.Post{
		ID:        uuid.New().String(),
		UserID:    authorID,
		Text:      text,
		Lang:      detectLang(text),
		Likes:     []repositories.Like{},
		Comments:  []repositories.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.posts.CreatePost(post); err != nil {
		return Post{}, err
	}
	if err := s.index.Index(post); err != nil {
		return Post{}, err
	}
	return s.withAuthor(post), nil
}

// ListPosts returns every post, newest first, authors resolved.
func (s *PostService) ListPosts() ([]Post, error) {
	posts, err := s.posts.ListPosts()
	if err != nil {
		return nil, err
	}
	return s.withAuthors(posts), nil
}

func (s *PostService) GetPost(id string) (Post, error) {
	post, err := s.posts.GetPost(id)
	if err != nil {
		return Post{}, err
	}
	return s.withAuthor(post), nil
}

// DeletePost removes the post permanently; embedded likes and comments go
// with it. Only the author may delete.
func (s *PostService) DeletePost(id, requesterID string) error {
	err := s.posts.DeletePost(id, func(post repositories.Post) error {
		if post.UserID != requesterID {
			return errors.ErrNotOwner
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.index.Remove(id)
}

// Like prepends a like for the requester and returns the updated
// sequence. The duplicate check and the write happen in one storage
// transaction, so two concurrent likes cannot both slip through.
func (s *PostService) Like(postID, requesterID string) ([]repositories.Like, error) {
	updated, err := s.posts.UpdatePost(postID, func(post *repositories.Post) error {
		if likedBy(post.Likes, requesterID) {
			return errors.ErrAlreadyLiked
		}
		post.Likes = append([]repositories.Like{{UserID: requesterID}}, post.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Likes, nil
}

// Unlike removes the requester's like via filter-and-replace.
func (s *PostService) Unlike(postID, requesterID string) error {
	_, err := s.posts.UpdatePost(postID, func(post *repositories.Post) error {
		if !likedBy(post.Likes, requesterID) {
			return errors.ErrNotLiked
		}
		post.Likes = lo.Filter(post.Likes, func(like repositories.Like, _ int) bool {
			return like.UserID != requesterID
		})
		return nil
	})
	return err
}

// Comment prepends a new comment and returns the updated sequence.
func (s *PostService) Comment(postID, requesterID, text string) ([]repositories.Comment, error) {
	text, err := s.cleanText(text)
	if err != nil {
		return nil, err
	}

	comment := repositories.Comment{
		ID:        uuid.New().String(),
		UserID:    requesterID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.posts.UpdatePost(postID, func(post *repositories.Post) error {
		post.Comments = append([]repositories.Comment{comment}, post.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Comments, nil
}

// DeleteComment removes one comment by identifier. Only the comment's
// author may delete it, regardless of who owns the post.
func (s *PostService) DeleteComment(postID, commentID, requesterID string) error {
	_, err := s.posts.UpdatePost(postID, func(post *repositories.Post) error {
		comment, found := lo.Find(post.Comments, func(c repositories.Comment) bool {
			return c.ID == commentID
		})
		if !found {
			return errors.ErrCommentNotFound
		}
		if comment.UserID != requesterID {
			return errors.ErrNotOwner
		}
		post.Comments = lo.Filter(post.Comments, func(c repositories.Comment, _ int) bool {
			return c.ID != commentID
		})
		return nil
	})
	return err
}

// Search resolves the full-text matches back to their documents. Posts
// deleted since indexing are skipped silently.
func (s *PostService) Search(ctx context.Context, terms string) ([]Post, error) {
	ids, err := s.index.Search(ctx, terms, s.searchLimit)
	if err != nil {
		return nil, err
	}

	var posts []repositories.Post
	for _, id := range ids {
		post, err := s.posts.GetPost(id)
		if err != nil {
			if stderrors.Is(err, errors.ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	return s.withAuthors(posts), nil
}

func (s *PostService) cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.ErrEmptyText
	}
	if s.maxTextLen > 0 && len(text) > s.maxTextLen {
		return "", errors.ErrTextTooLong
	}
	censored, _ := s.moderator.Censor(text)
	return censored, nil
}

func (s *PostService) withAuthor(post repositories.Post) Post {
	return Post{Post: post, Author: s.username(post.UserID)}
}

// withAuthors resolves usernames with a per-call cache so a feed written
// by few authors costs few lookups.
func (s *PostService) withAuthors(posts []repositories.Post) []Post {
	names := make(map[string]string)
	return lo.Map(posts, func(post repositories.Post, _ int) Post {
		name, ok := names[post.UserID]
		if !ok {
			name = s.username(post.UserID)
			names[post.UserID] = name
		}
		return Post{Post: post, Author: name}
	})
}

// username resolves the display projection of an author reference. A
// missing user (never deleted by this service, but possible with a stale
// database) degrades to an empty name rather than failing the read.
func (s *PostService) username(userID string) string {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return ""
	}
	return user.Username
}

func likedBy(likes []repositories.Like, userID string) bool {
	return lo.SomeBy(likes, func(like repositories.Like) bool {
		return like.UserID == userID
	})
}

func detectLang(text string) string {
	info := whatlanggo.Detect(text)
	return info.Lang.Iso6391()
}
