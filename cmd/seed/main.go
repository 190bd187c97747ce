package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"feed-lab/auth"
	"feed-lab/moderation"
	"feed-lab/repositories"
	"feed-lab/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
)

var accounts = []struct {
	username string
	email    string
}{
	{"alice", "alice@example.com"},
	{"bob", "bob@example.com"},
	{"carol", "carol@example.com"},
}

var posts = []struct {
	author string
	text   string
}{
	{"alice", "Hello world, first post on the feed"},
	{"bob", "Trying out the new posting service"},
	{"carol", "Does anyone else love key-value stores?"},
	{"alice", "Badger and Bluge make a surprisingly good pair"},
	{"bob", "Shipping a side project this weekend"},
}

var comments = []string{
	"Nice post!",
	"Totally agree.",
	"Tell me more about this.",
}

// seed populates a Badger store and its search index with demo accounts
// and posts, for local development against a realistic dataset.
func main() {
	badgerPath := flag.String("badger", "./data/badger", "Badger database directory")
	blugePath := flag.String("bluge", "./data/bluge", "Bluge index directory")
	password := flag.String("password", "password123", "password assigned to every demo account")
	flag.Parse()

	if err := run(*badgerPath, *blugePath, *password); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(badgerPath, blugePath, password string) error {
	db, err := badger.Open(badger.DefaultOptions(badgerPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("opening badger: %w", err)
	}
	defer db.Close()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(blugePath))
	if err != nil {
		return fmt.Errorf("opening bluge: %w", err)
	}
	defer writer.Close()

	logger := slog.Default()
	users := repositories.NewUserRepository(db)
	postsRepo := repositories.NewPostRepository(db)
	index := repositories.NewPostIndex(writer, logger)

	moderator, err := moderation.NewModerator(nil, '*', logger)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	feed := services.NewPostService(postsRepo, users, index, moderator, 280, 10)

	ids := make(map[string]string, len(accounts))
	for _, account := range accounts {
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		id, err := users.CreateUser(account.username, account.email, hashed)
		if err != nil {
			return fmt.Errorf("creating %s: %w", account.username, err)
		}
		ids[account.username] = id
		log.Printf("created user %s (%s)", account.username, id)
	}

	var created []string
	for _, p := range posts {
		post, err := feed.CreatePost(ids[p.author], p.text)
		if err != nil {
			return fmt.Errorf("creating post for %s: %w", p.author, err)
		}
		created = append(created, post.ID)
	}
	log.Printf("created %d posts", len(created))

	// Sprinkle likes and comments over the first posts so the feed is
	// not empty of interactions.
	for i, postID := range created {
		for name, userID := range ids {
			if name == posts[i].author {
				continue
			}
			if _, err := feed.Like(postID, userID); err != nil {
				return fmt.Errorf("liking post: %w", err)
			}
			if i < len(comments) {
				if _, err := feed.Comment(postID, userID, comments[i]); err != nil {
					return fmt.Errorf("commenting: %w", err)
				}
			}
		}
	}
	log.Println("seed complete")
	return nil
}
