package inmemory

import (
	"context"
	"sync"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"
)

type UserStorage struct {
	mu      sync.RWMutex
	users   []model.User
	byEmail map[string]int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users:   []model.User{{}},
		byEmail: make(map[string]int64),
	}
}

func (s *UserStorage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[in.Email]; taken {
		return model.User{}, service.ErrDuplicateEmail
	}

	in.ID = int64(len(s.users))
	in.Role = model.RoleMember
	if in.ID == 1 {
		in.Role = model.RoleAdmin
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}

	s.users = append(s.users, in)
	s.byEmail[in.Email] = in.ID
	return in, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.get(userID)
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return u, nil
}

func (s *UserStorage) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[id], nil
}

func (s *UserStorage) GetUsersByIDs(_ context.Context, userIDs []int64) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.get(id); ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStorage) exists(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.get(userID)
	return ok
}

// get expects s.mu to be held.
func (s *UserStorage) get(userID int64) (model.User, bool) {
	if userID <= 0 || int(userID) >= len(s.users) {
		return model.User{}, false
	}
	return s.users[userID], true
}
