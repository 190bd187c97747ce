package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrEmailTaken          = fmt.Errorf("email already registered")
	ErrUserNotFound        = fmt.Errorf("user not found")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrInvalidRegistration = fmt.Errorf("invalid registration request")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrInvalidToken        = fmt.Errorf("invalid or expired token")

	ErrPostNotFound    = fmt.Errorf("post not found")
	ErrCommentNotFound = fmt.Errorf("comment does not exist")
	ErrAlreadyLiked    = fmt.Errorf("post already liked")
	ErrNotLiked        = fmt.Errorf("post has not yet been liked")
	ErrEmptyText       = fmt.Errorf("text is required")
	ErrTextTooLong     = fmt.Errorf("text exceeds maximum length")
	ErrNotOwner        = fmt.Errorf("user not authorized")

	ErrEmptyWords = fmt.Errorf("no censored words have been found")
)

// HTTPStatus maps a domain error to the response status written at the
// gateway boundary. Anything unknown is treated as an internal failure
// and must not leak its message to the caller.
func HTTPStatus(err error) int {
	switch {
	case stderrors.Is(err, ErrEmptyText),
		stderrors.Is(err, ErrTextTooLong),
		stderrors.Is(err, ErrEmailTaken),
		stderrors.Is(err, ErrInvalidRegistration),
		stderrors.Is(err, ErrAlreadyLiked),
		stderrors.Is(err, ErrNotLiked):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrInvalidCredentials),
		stderrors.Is(err, ErrInvalidToken),
		stderrors.Is(err, ErrNotOwner):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrUserNotFound),
		stderrors.Is(err, ErrPostNotFound),
		stderrors.Is(err, ErrCommentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
