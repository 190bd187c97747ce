package services

import (
	"testing"
	"time"

	"feed-lab/auth"
	"feed-lab/errors"

	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		req.NoError(f.auth.Register("alice", "alice@example.com", "pw1"))

		// The stored digest is not the plain password
		user, err := f.users.GetUserByEmail("alice@example.com")
		req.NoError(err)
		req.Equal("alice", user.Username)
		req.NotEqual("pw1", user.PasswordHash)
	})

	t.Run("should fail on a malformed email", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		err := f.auth.Register("alice", "notanemail", "pw1")
		req.ErrorIs(err, errors.ErrInvalidRegistration)
	})

	t.Run("should register exactly once per email", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		req.NoError(f.auth.Register("alice", "alice@example.com", "pw1"))

		err := f.auth.Register("impostor", "alice@example.com", "other")
		req.ErrorIs(err, errors.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("should resolve the token back to the user identifier", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		userID := f.register(t, "alice", "alice@example.com")

		token, err := f.auth.Login("alice@example.com", "pw1")
		req.NoError(err)
		req.NotEmpty(token)

		tokens := auth.NewTokenManager("test-secret", time.Hour)
		resolved, err := tokens.Validate(string(token))
		req.NoError(err)
		req.Equal(userID, resolved)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.register(t, "alice", "alice@example.com")

		_, err := f.auth.Login("alice@example.com", "WrongPassword")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should report an unknown email as not found", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		_, err := f.auth.Login("ghost@example.com", "pw1")
		req.ErrorIs(err, errors.ErrUserNotFound)
	})
}
