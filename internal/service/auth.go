package service

import (
	"context"
	"errors"
	"fmt"

	"myblog/internal/model"
)

//go:generate mockgen -source=auth.go -destination=./auth_mock.go -package=service
type UserStorage interface {
	// CreateUser stores a new account. The storage assigns the role: the first
	// account ever created becomes the admin.
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []int64) ([]model.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

type AuthService struct {
	userStorage UserStorage
	hasher      PasswordHasher
}

func NewAuthService(userStorage UserStorage, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userStorage: userStorage,
		hasher:      hasher,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	if err := validateRequest(req); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	return s.userStorage.CreateUser(ctx, model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (model.User, error) {
	if err := validateRequest(req); err != nil {
		return model.User{}, err
	}

	u, err := s.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrNoSuchUser
		}
		return model.User{}, err
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return model.User{}, ErrWrongPassword
	}
	return u, nil
}

// Identify resolves the user id held by a session into an identity. Sessions
// pointing at accounts that no longer exist resolve to anonymous.
func (s *AuthService) Identify(ctx context.Context, userID int64) (model.Identity, error) {
	if userID <= 0 {
		return model.Anonymous(), nil
	}

	u, err := s.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Anonymous(), nil
		}
		return model.Anonymous(), err
	}
	return model.Authenticated(u), nil
}
