package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"myblog/internal/adapter/in/web/session"
	"myblog/internal/model"
	"myblog/pkg/logger"

	"github.com/google/uuid"
)

type identityKey struct{}

func withIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func identityFrom(ctx context.Context) model.Identity {
	if identity, ok := ctx.Value(identityKey{}).(model.Identity); ok {
		return identity
	}
	return model.Anonymous()
}

// identify resolves the session cookie. Broken or stale sessions are cleared
// and the request continues anonymously.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)
		identity := model.Anonymous()

		userID, err := h.sessions.Read(r)
		switch {
		case errors.Is(err, session.ErrNoSession):
		case err != nil:
			log.Debug("dropping session", "error", err)
			h.sessions.Clear(w)
		default:
			identity, err = h.auth.Identify(ctx, userID)
			if err != nil {
				log.Error("identify session", "user_id", userID, "error", err)
				identity = model.Anonymous()
			} else if !identity.IsAuthenticated() {
				h.sessions.Clear(w)
			}
		}

		if u, ok := identity.User(); ok {
			ctx = logger.WithLogger(ctx, log.With("user_id", u.ID))
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(ctx, identity)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.FromContext(r.Context()).With(
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithLogger(r.Context(), log)))

		log.Info("request", "status", rec.status, "duration", time.Since(start))
	})
}
