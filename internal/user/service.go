package user

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register stores a new account. Any role other than SELLER becomes BUYER.
func (s *Service) Register(ctx context.Context, username, email, hashedPassword, role string) (User, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	newUser := &User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     normalizeRole(role),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}

	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func normalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), RoleSeller) {
		return RoleSeller
	}
	return RoleBuyer
}
