package services

import (
	"fmt"

	"feed-lab/auth"
	"feed-lab/errors"
	"feed-lab/repositories"
)

type IAuthService interface {
	Register(username, email, password string) error
	Login(email, password string) (Token, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

// Register stores a new account. It issues no token; the caller logs in
// separately.
func (s *AuthService) Register(username, email, password string) error {
	valReq := auth.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}

	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return err
	}

	// Hashing happens here to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	// Propagates ErrEmailTaken when the address is already registered.
	if _, err := s.userRepository.CreateUser(username, email, hashedPassword); err != nil {
		return err
	}
	return nil
}

// Login authenticates the credentials and mints a session token carrying
// the user identifier. An unknown email is reported as not-found, a wrong
// password as invalid credentials.
func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return "", err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}
