package web

import (
	"errors"
	"net/http"

	"myblog/internal/service"
	"myblog/pkg/logger"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateTitle), errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the response for an error that has no page-specific
// handling. Unauthenticated callers are sent to the login page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusUnauthorized:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case http.StatusInternalServerError:
		logger.FromContext(r.Context()).Error("request failed", "error", err)
		h.renderError(w, r, status, "Something went wrong.")
		return
	}
	h.renderError(w, r, status, userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateTitle):
		return "A post with this title already exists."
	case errors.Is(err, service.ErrDuplicateEmail):
		return "Email already taken. Login instead"
	case errors.Is(err, service.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, service.ErrNotFound):
		return "Not found."
	case errors.Is(err, service.ErrUnknownAuthor):
		return "No user has that author ID."
	case errors.Is(err, service.ErrInvalidRequest):
		return "Please fill in every field correctly."
	default:
		return "Something went wrong."
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Not found.")
}
