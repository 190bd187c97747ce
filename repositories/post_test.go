package repositories

import (
	"fmt"
	"testing"
	"time"

	"feed-lab/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newPost(author, text string, at time.Time) Post {
	return Post{
		ID:        uuid.New().String(),
		UserID:    author,
		Text:      text,
		Likes:     []Like{},
		Comments:  []Comment{},
		CreatedAt: at,
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	post := newPost("author-1", "hello world", time.Now().UTC())
	req.NoError(repo.CreatePost(post))

	fetched, err := repo.GetPost(post.ID)
	req.NoError(err)
	req.Equal(post.ID, fetched.ID)
	req.Equal("hello world", fetched.Text)
	req.Empty(fetched.Likes)
	req.Empty(fetched.Comments)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	at := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		post := newPost(fmt.Sprintf("author-%d", i), fmt.Sprintf("post %d", i), at.Add(time.Duration(i)*time.Minute))
		req.NoError(repo.CreatePost(post))
	}

	posts, err := repo.ListPosts()
	req.NoError(err)
	req.Len(posts, 5)
	req.Equal("post 5", posts[0].Text)
	req.Equal("post 1", posts[4].Text)
}

func TestPostRepository_GetMissing(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	_, err := repo.GetPost("no-such-post")
	req.ErrorIs(err, errors.ErrPostNotFound)
}

func TestPostRepository_UpdatePost(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	post := newPost("author-1", "original", time.Now().UTC())
	req.NoError(repo.CreatePost(post))

	updated, err := repo.UpdatePost(post.ID, func(p *Post) error {
		p.Likes = append([]Like{{UserID: "fan-1"}}, p.Likes...)
		return nil
	})
	req.NoError(err)
	req.Len(updated.Likes, 1)

	fetched, err := repo.GetPost(post.ID)
	req.NoError(err)
	req.Equal([]Like{{UserID: "fan-1"}}, fetched.Likes)
}

func TestPostRepository_UpdateAbortsOnDomainError(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	post := newPost("author-1", "original", time.Now().UTC())
	req.NoError(repo.CreatePost(post))

	_, err := repo.UpdatePost(post.ID, func(p *Post) error {
		p.Text = "should never be persisted"
		return errors.ErrAlreadyLiked
	})
	req.ErrorIs(err, errors.ErrAlreadyLiked)

	fetched, err := repo.GetPost(post.ID)
	req.NoError(err)
	req.Equal("original", fetched.Text)
}

func TestPostRepository_UpdateMissing(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	_, err := repo.UpdatePost("no-such-post", func(p *Post) error { return nil })
	req.ErrorIs(err, errors.ErrPostNotFound)
}

func TestPostRepository_Delete(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	post := newPost("author-1", "to be removed", time.Now().UTC())
	req.NoError(repo.CreatePost(post))

	req.NoError(repo.DeletePost(post.ID, nil))

	_, err := repo.GetPost(post.ID)
	req.ErrorIs(err, errors.ErrPostNotFound)

	posts, err := repo.ListPosts()
	req.NoError(err)
	req.Empty(posts)
}

func TestPostRepository_DeleteGuardBlocks(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	post := newPost("author-1", "guarded", time.Now().UTC())
	req.NoError(repo.CreatePost(post))

	err := repo.DeletePost(post.ID, func(p Post) error {
		if p.UserID != "someone-else" {
			return errors.ErrNotOwner
		}
		return nil
	})
	req.ErrorIs(err, errors.ErrNotOwner)

	// Still listed, still readable
	_, err = repo.GetPost(post.ID)
	req.NoError(err)
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	req := require.New(t)
	repo := NewPostRepository(testDB(t))

	err := repo.DeletePost("no-such-post", nil)
	req.ErrorIs(err, errors.ErrPostNotFound)
}
