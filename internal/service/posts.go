package service

import (
	"context"
	"errors"
	"fmt"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/pkg/clock"
)

//go:generate mockgen -source=posts.go -destination=./posts_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	GetPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	LockPost(ctx context.Context, postID int64) error
}

type PostService struct {
	postStorage    PostStorage
	commentStorage CommentStorage
	userStorage    UserStorage
	trManager      TxManager
	clock          clock.Clock
}

func NewPostService(
	postStorage PostStorage,
	commentStorage CommentStorage,
	userStorage UserStorage,
	trManager TxManager,
	clk clock.Clock,
) *PostService {
	return &PostService{
		postStorage:    postStorage,
		commentStorage: commentStorage,
		userStorage:    userStorage,
		trManager:      trManager,
		clock:          clk,
	}
}

func (s *PostService) ListPosts(ctx context.Context, identity model.Identity) (PostList, error) {
	posts, err := s.postStorage.GetPosts(ctx)
	if err != nil {
		return PostList{}, err
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	authors, err := s.loadAuthors(ctx, ids)
	if err != nil {
		return PostList{}, err
	}

	return PostList{
		Posts:    posts,
		Authors:  authors,
		LoggedIn: identity.IsAuthenticated(),
		IsAdmin:  IsAdmin(identity),
	}, nil
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.GetPostByID(ctx, postID)
}

func (s *PostService) ViewPost(ctx context.Context, identity model.Identity, postID int64) (PostView, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return PostView{}, err
	}

	comments, err := s.commentStorage.GetCommentsByPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}

	ids := make([]int64, 0, len(comments)+1)
	ids = append(ids, post.AuthorID)
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := s.loadAuthors(ctx, ids)
	if err != nil {
		return PostView{}, err
	}

	return PostView{
		Post:     post,
		Comments: comments,
		Authors:  authors,
		LoggedIn: identity.IsAuthenticated(),
		IsAdmin:  IsAdmin(identity),
	}, nil
}

func (s *PostService) CreatePost(ctx context.Context, identity model.Identity, req CreatePostRequest) (model.Post, error) {
	author, err := RequireAdmin(identity)
	if err != nil {
		return model.Post{}, err
	}
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}

	return s.postStorage.CreatePost(ctx, model.Post{
		AuthorID: author.ID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     s.clock.Now().UTC().Format(model.PostDateLayout),
		Body:     req.Body,
		ImgURL:   req.ImgURL,
	})
}

// EditPost replaces the editable fields of a post. The original creation date
// is kept.
func (s *PostService) EditPost(ctx context.Context, identity model.Identity, postID int64, req EditPostRequest) (model.Post, error) {
	if _, err := RequireAdmin(identity); err != nil {
		return model.Post{}, err
	}
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}

	params := storage.UpdatePostParams{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImgURL:   req.ImgURL,
	}
	if req.AuthorID > 0 {
		if _, err := s.userStorage.GetUserByID(ctx, req.AuthorID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return model.Post{}, fmt.Errorf("author_id %d: %w", req.AuthorID, ErrUnknownAuthor)
			}
			return model.Post{}, err
		}
		authorID := req.AuthorID
		params.AuthorID = &authorID
	}

	return s.postStorage.UpdatePost(ctx, postID, params)
}

// DeletePost removes a post together with its comments in one transaction.
func (s *PostService) DeletePost(ctx context.Context, identity model.Identity, postID int64) error {
	if _, err := RequireAdmin(identity); err != nil {
		return err
	}
	if postID <= 0 {
		return fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}

	return s.trManager.Do(ctx, func(ctx context.Context) error {
		if err := s.postStorage.LockPost(ctx, postID); err != nil {
			return err
		}
		if _, err := s.commentStorage.DeleteCommentsByPost(ctx, postID); err != nil {
			return err
		}
		return s.postStorage.DeletePost(ctx, postID)
	})
}

func (s *PostService) loadAuthors(ctx context.Context, ids []int64) (map[int64]model.User, error) {
	authors := make(map[int64]model.User, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.userStorage.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("loading authors: %w", err)
	}
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}
