package auth

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/platform/crypto"
	"bookstore/internal/user"
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	secret      string
	tokenTTL    time.Duration
	userService *user.Service
}

func NewService(secret string, tokenTTL time.Duration, userService *user.Service) *Service {
	return &Service{
		secret:      secret,
		tokenTTL:    tokenTTL,
		userService: userService,
	}
}

func (s *Service) Signup(ctx context.Context, username, email, password, role string) (user.User, error) {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}
	return s.userService.Register(ctx, username, email, hashed, role)
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Token{}, ErrUnauthorized
		}
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return Token{}, ErrUnauthorized
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return Token{}, err
	}

	return Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}
