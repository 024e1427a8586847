package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"myblog/internal/model"
	"myblog/pkg/logger"
)

const keepAliveInterval = 15 * time.Second

type commentEvent struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentEvent(c model.Comment) commentEvent {
	return commentEvent{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// commentEvents streams new comments of a post as server-sent events until
// the client goes away.
func (h *Handler) commentEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	postID, ok := postIDFrom(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	ch, err := h.comments.Listen(ctx, postID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("clear write deadline", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Error("streaming unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case c, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(newCommentEvent(c))
			if err != nil {
				log.Error("marshal comment event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: comment\nid: %d\ndata: %s\n\n", c.ID, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
