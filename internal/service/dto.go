package service

import (
	"fmt"

	"myblog/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required"`
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type CreatePostRequest struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	Body     string `validate:"required"`
	ImgURL   string `validate:"required,url,max=250"`
}

// EditPostRequest replaces every editable field of a post. AuthorID of zero
// keeps the current author.
type EditPostRequest struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	Body     string `validate:"required"`
	ImgURL   string `validate:"required,url,max=250"`
	AuthorID int64  `validate:"gte=0"`
}

type AddCommentRequest struct {
	PostID int64  `validate:"required,gt=0"`
	Text   string `validate:"required"`
}

type PostList struct {
	Posts    []model.Post
	Authors  map[int64]model.User
	LoggedIn bool
	IsAdmin  bool
}

type PostView struct {
	Post     model.Post
	Comments []model.Comment
	Authors  map[int64]model.User
	LoggedIn bool
	IsAdmin  bool
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
