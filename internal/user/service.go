package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, state string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByMobile(ctx context.Context, mobile string) (*User, error) {
	return s.repo.GetUserByMobile(ctx, NormalizeMobile(mobile))
}

// FindOrCreate returns the user owning mobile, creating a bare account on first sign-in.
// The boolean is true when the account was created by this call.
func (s *Service) FindOrCreate(ctx context.Context, mobile string) (*User, bool, error) {
	mobile = NormalizeMobile(mobile)

	u, err := s.repo.GetUserByMobile(ctx, mobile)
	if err == nil {
		return u, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	u = &User{MobileNumber: mobile, Role: RoleUser}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, false, fmt.Errorf("creating user: %w", err)
	}

	return u, true, nil
}

func (s *Service) Register(ctx context.Context, id uuid.UUID, name, state string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}

	if err := s.repo.UpdateProfile(ctx, id, name, strings.TrimSpace(state)); err != nil {
		return nil, err
	}

	return s.repo.GetUser(ctx, id)
}

// NormalizeMobile keeps the last ten digits, dropping spaces and a +91 or 0 prefix.
func NormalizeMobile(mobile string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, mobile)

	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}

	return digits
}
