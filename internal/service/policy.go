package service

import (
	"fmt"

	"myblog/internal/model"
)

// IsAdmin reports whether identity may create, edit or delete posts.
// Anonymous identities are never admins.
func IsAdmin(identity model.Identity) bool {
	u, ok := identity.User()
	return ok && u.IsAdmin()
}

// RequireAdmin guards admin-only operations and returns the acting user.
func RequireAdmin(identity model.Identity) (model.User, error) {
	u, ok := identity.User()
	if !ok {
		return model.User{}, fmt.Errorf("%w: anonymous caller", ErrForbidden)
	}
	if !u.IsAdmin() {
		return model.User{}, fmt.Errorf("%w: user %d is not an admin", ErrForbidden, u.ID)
	}
	return u, nil
}
