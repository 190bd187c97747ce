package services

import (
	"log/slog"
	"testing"
	"time"

	"feed-lab/auth"
	"feed-lab/moderation"
	"feed-lab/repositories"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

const (
	testMaxTextLen  = 280
	testSearchLimit = 10
)

type fixture struct {
	users repositories.IUserRepository
	posts repositories.IPostRepository
	auth  IAuthService
	feed  IPostService
}

// newFixture wires the services over an in-memory Badger and a temp-dir
// bluge index, the same stack the binary runs.
func newFixture(t *testing.T) fixture {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	moderator, err := moderation.NewModerator([]string{"badger"}, '*', slog.Default())
	require.NoError(t, err)

	users := repositories.NewUserRepository(db)
	posts := repositories.NewPostRepository(db)
	index := repositories.NewPostIndex(writer, slog.Default())
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return fixture{
		users: users,
		posts: posts,
		auth:  NewAuthService(users, tokens),
		feed:  NewPostService(posts, users, index, moderator, testMaxTextLen, testSearchLimit),
	}
}

// register creates an account and returns its store-assigned identifier.
func (f fixture) register(t *testing.T, username, email string) string {
	t.Helper()
	require.NoError(t, f.auth.Register(username, email, "pw1"))
	user, err := f.users.GetUserByEmail(email)
	require.NoError(t, err)
	return user.ID
}
