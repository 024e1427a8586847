package web

import (
	"context"
	"fmt"

	"myblog/internal/adapter/in/web/session"
	"myblog/internal/model"
	"myblog/internal/service"

	"github.com/gorilla/schema"
)

type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req service.LoginRequest) (model.User, error)
	Identify(ctx context.Context, userID int64) (model.Identity, error)
}

type PostService interface {
	ListPosts(ctx context.Context, identity model.Identity) (service.PostList, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	ViewPost(ctx context.Context, identity model.Identity, postID int64) (service.PostView, error)
	CreatePost(ctx context.Context, identity model.Identity, req service.CreatePostRequest) (model.Post, error)
	EditPost(ctx context.Context, identity model.Identity, postID int64, req service.EditPostRequest) (model.Post, error)
	DeletePost(ctx context.Context, identity model.Identity, postID int64) error
}

type CommentService interface {
	AddComment(ctx context.Context, identity model.Identity, req service.AddCommentRequest) (model.Comment, error)
	Listen(ctx context.Context, postID int64) (<-chan model.Comment, error)
}

type Handler struct {
	auth     AuthService
	posts    PostService
	comments CommentService
	sessions *session.Manager
	pages    *renderer
	forms    *schema.Decoder
}

func NewHandler(
	auth AuthService,
	posts PostService,
	comments CommentService,
	sessions *session.Manager,
) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	forms := schema.NewDecoder()
	forms.IgnoreUnknownKeys(true)
	forms.ZeroEmpty(true)

	return &Handler{
		auth:     auth,
		posts:    posts,
		comments: comments,
		sessions: sessions,
		pages:    pages,
		forms:    forms,
	}, nil
}
