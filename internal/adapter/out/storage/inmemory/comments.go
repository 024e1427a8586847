package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"
)

type CommentStorage struct {
	mu sync.RWMutex

	comments []model.Comment
	byPost   map[int64][]int64

	posts *PostStorage
	users *UserStorage
}

func NewCommentStorage(posts *PostStorage, users *UserStorage) *CommentStorage {
	return &CommentStorage{
		comments: []model.Comment{{}},
		byPost:   make(map[int64][]int64),
		posts:    posts,
		users:    users,
	}
}

func (s *CommentStorage) CreateComment(_ context.Context, in model.Comment) (model.Comment, error) {
	if !s.posts.exists(in.PostID) {
		return model.Comment{}, fmt.Errorf("post %d: %w", in.PostID, service.ErrNotFound)
	}
	if !s.users.exists(in.AuthorID) {
		return model.Comment{}, fmt.Errorf("author %d: %w", in.AuthorID, service.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.comments))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.comments = append(s.comments, in)
	s.byPost[in.PostID] = append(s.byPost[in.PostID], in.ID)
	return in, nil
}

func (s *CommentStorage) GetCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[postID]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.comments[id])
	}
	return out, nil
}

func (s *CommentStorage) DeleteCommentsByPost(_ context.Context, postID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byPost[postID]
	for _, id := range ids {
		s.comments[id] = model.Comment{}
	}
	delete(s.byPost, postID)
	return int64(len(ids)), nil
}
