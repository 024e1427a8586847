package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already taken")
	ErrDuplicateTitle  = errors.New("post title already taken")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrWrongPassword   = errors.New("wrong password")
	ErrNoSuchUser      = errors.New("user email does not exist")

	ErrUnknownAuthor = fmt.Errorf("unknown author: %w", ErrInvalidRequest)
)
