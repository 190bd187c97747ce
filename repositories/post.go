//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"feed-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

type IPostRepository interface {
	CreatePost(post Post) error
	GetPost(id string) (Post, error)
	ListPosts() ([]Post, error)
	DeletePost(id string, guard func(Post) error) error
	UpdatePost(id string, mutate func(*Post) error) (Post, error)
}

type PostRepository struct {
	db *badger.DB
}

func NewPostRepository(db *badger.DB) IPostRepository {
	return &PostRepository{db: db}
}

// Like is a back-reference to the user who liked the post. It carries no
// identity of its own; a post holds at most one Like per user.
type Like struct {
	UserID string `json:"user_id"`
}

// Comment is embedded in its post and has no independent lifecycle.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is the stored document. Likes and comments are kept newest-first;
// all mutations rewrite the whole document.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Lang      string    `json:"lang,omitempty"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Key layout:
//
//	post:item:<uuid>                -> post document (JSON)
//	post:feed:<padded-unixnano>:<uuid> -> uuid
//
// The feed key uses 19-digit zero padding so a reverse prefix scan yields
// posts ordered by descending creation time.
func postKey(id string) []byte { return []byte("post:item:" + id) }

func feedKey(post Post) []byte {
	return []byte(fmt.Sprintf("post:feed:%019d:%s", post.CreatedAt.UnixNano(), post.ID))
}

const feedPrefix = "post:feed:"

func (p PostRepository) CreatePost(post Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(feedKey(post), []byte(post.ID)); err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

func (p PostRepository) GetPost(id string) (Post, error) {
	var post Post
	err := p.db.View(func(txn *badger.Txn) error {
		return readPost(txn, id, &post)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Post{}, errors.ErrPostNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return post, nil
}

// ListPosts walks the feed index in reverse so the most recently created
// post comes first.
func (p PostRepository) ListPosts() ([]Post, error) {
	var posts []Post
	err := p.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(feedPrefix)
		// Seek past every possible padded timestamp, then walk backwards.
		seekKey := append([]byte(feedPrefix), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}
			var post Post
			if err := readPost(txn, id, &post); err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost loads the document, runs the guard (ownership check) and
// removes both keys, all inside one transaction. Embedded likes and
// comments disappear with the document.
func (p PostRepository) DeletePost(id string, guard func(Post) error) error {
	err := p.db.Update(func(txn *badger.Txn) error {
		var post Post
		if err := readPost(txn, id, &post); err != nil {
			return err
		}
		if guard != nil {
			if err := guard(post); err != nil {
				return err
			}
		}
		if err := txn.Delete(feedKey(post)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrPostNotFound
	}
	return err
}

// UpdatePost runs a read-validate-mutate-persist cycle on one document
// inside a single Badger transaction. Badger transactions are
// serializable, so two concurrent updates of the same post cannot lose
// each other's write; the loser fails with badger.ErrConflict instead.
// A domain error returned by mutate aborts the transaction unchanged.
func (p PostRepository) UpdatePost(id string, mutate func(*Post) error) (Post, error) {
	var post Post
	err := p.db.Update(func(txn *badger.Txn) error {
		if err := readPost(txn, id, &post); err != nil {
			return err
		}
		if err := mutate(&post); err != nil {
			return err
		}
		data, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(postKey(id), data)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Post{}, errors.ErrPostNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return post, nil
}

func readPost(txn *badger.Txn, id string, post *Post) error {
	item, err := txn.Get(postKey(id))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, post)
	})
}
