package service

import (
	"context"
	"fmt"

	"myblog/internal/model"
	"myblog/pkg/logger"
)

//go:generate mockgen -source=comments.go -destination=./comments_mock.go -package=service
type CommentStorage interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	DeleteCommentsByPost(ctx context.Context, postID int64) (int64, error)
}

type CommentBus interface {
	Subscribe(ctx context.Context, postID int64) (<-chan model.Comment, error)
	Publish(ctx context.Context, postID int64, c model.Comment) error
}

type CommentService struct {
	commentStorage CommentStorage
	postStorage    PostStorage
	trManager      TxManager
	commentBus     CommentBus
}

func NewCommentService(
	commentStorage CommentStorage,
	postStorage PostStorage,
	trManager TxManager,
	commentBus CommentBus,
) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		postStorage:    postStorage,
		trManager:      trManager,
		commentBus:     commentBus,
	}
}

func (s *CommentService) AddComment(ctx context.Context, identity model.Identity, req AddCommentRequest) (model.Comment, error) {
	author, ok := identity.User()
	if !ok {
		return model.Comment{}, ErrUnauthenticated
	}
	if err := validateRequest(req); err != nil {
		return model.Comment{}, err
	}

	var comment model.Comment
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.postStorage.GetPostByID(ctx, req.PostID); err != nil {
			return err
		}

		var err error
		comment, err = s.commentStorage.CreateComment(ctx, model.Comment{
			PostID:   req.PostID,
			AuthorID: author.ID,
			Text:     req.Text,
		})
		return err
	})
	if err != nil {
		return model.Comment{}, err
	}

	if s.commentBus != nil {
		if err := s.commentBus.Publish(ctx, comment.PostID, comment); err != nil {
			logger.FromContext(ctx).Warn("publish comment", "post_id", comment.PostID, "error", err)
		}
	}
	return comment, nil
}

func (s *CommentService) GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.commentStorage.GetCommentsByPost(ctx, postID)
}

func (s *CommentService) Listen(ctx context.Context, postID int64) (<-chan model.Comment, error) {
	if s.commentBus == nil {
		return nil, fmt.Errorf("no bus configured")
	}
	if postID <= 0 {
		return nil, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentBus.Subscribe(ctx, postID)
}
