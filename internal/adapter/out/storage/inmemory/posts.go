package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/internal/service"
)

type PostStorage struct {
	mu      sync.RWMutex
	posts   []model.Post
	byTitle map[string]int64
	users   *UserStorage
}

func NewPostStorage(users *UserStorage) *PostStorage {
	return &PostStorage{
		posts:   []model.Post{{}},
		byTitle: make(map[string]int64),
		users:   users,
	}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	if !s.users.exists(in.AuthorID) {
		return model.Post{}, fmt.Errorf("author %d: %w", in.AuthorID, service.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byTitle[in.Title]; taken {
		return model.Post{}, service.ErrDuplicateTitle
	}

	in.ID = int64(len(s.posts))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.posts = append(s.posts, in)
	s.byTitle[in.Title] = in.ID
	return in, nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.get(postID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	return p, nil
}

func (s *PostStorage) GetPosts(_ context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0, len(s.posts)-1)
	for _, p := range s.posts[1:] {
		if p.ID != 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostStorage) UpdatePost(_ context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error) {
	if params.AuthorID != nil && !s.users.exists(*params.AuthorID) {
		return model.Post{}, fmt.Errorf("author %d: %w", *params.AuthorID, service.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(postID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	if owner, taken := s.byTitle[params.Title]; taken && owner != postID {
		return model.Post{}, service.ErrDuplicateTitle
	}

	delete(s.byTitle, p.Title)
	p.Title = params.Title
	p.Subtitle = params.Subtitle
	p.Body = params.Body
	p.ImgURL = params.ImgURL
	if params.AuthorID != nil {
		p.AuthorID = *params.AuthorID
	}

	s.posts[postID] = p
	s.byTitle[p.Title] = postID
	return p, nil
}

func (s *PostStorage) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(postID)
	if !ok {
		return service.ErrNotFound
	}
	delete(s.byTitle, p.Title)
	s.posts[postID] = model.Post{}
	return nil
}

// LockPost only checks that the post exists; TxManager already serializes
// the callers that need the lock.
func (s *PostStorage) LockPost(_ context.Context, postID int64) error {
	if !s.exists(postID) {
		return service.ErrNotFound
	}
	return nil
}

func (s *PostStorage) exists(postID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.get(postID)
	return ok
}

// get expects s.mu to be held.
func (s *PostStorage) get(postID int64) (model.Post, bool) {
	if postID <= 0 || int(postID) >= len(s.posts) {
		return model.Post{}, false
	}
	p := s.posts[postID]
	return p, p.ID != 0
}
