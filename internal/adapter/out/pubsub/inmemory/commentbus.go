package inmemory

import (
	"context"
	"errors"
	"sync"

	"myblog/internal/model"
	"myblog/pkg/logger"
)

const DefaultBuffer = 16

var ErrClosed = errors.New("comment bus closed")

// CommentBus fans new comments out to live viewers of a post. A subscriber
// that falls behind loses comments rather than stalling the publisher.
type CommentBus struct {
	mu     sync.RWMutex
	subs   map[int64]map[chan model.Comment]struct{}
	buf    int
	closed bool
}

func New(buf int) *CommentBus {
	if buf <= 0 {
		buf = DefaultBuffer
	}
	return &CommentBus{
		subs: make(map[int64]map[chan model.Comment]struct{}),
		buf:  buf,
	}
}

// Subscribe registers a viewer of postID. The channel is closed when ctx is
// done or the bus is closed.
func (b *CommentBus) Subscribe(ctx context.Context, postID int64) (<-chan model.Comment, error) {
	ch := make(chan model.Comment, b.buf)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	if b.subs[postID] == nil {
		b.subs[postID] = make(map[chan model.Comment]struct{})
	}
	b.subs[postID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(postID, ch)
	}()

	return ch, nil
}

func (b *CommentBus) unsubscribe(postID int64, ch chan model.Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.subs[postID]
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(b.subs, postID)
	}
	close(ch)
}

func (b *CommentBus) Publish(ctx context.Context, postID int64, c model.Comment) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	dropped := 0
	for ch := range b.subs[postID] {
		select {
		case ch <- c:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		logger.FromContext(ctx).Debug("slow comment subscribers skipped", "post_id", postID, "dropped", dropped)
	}
	return nil
}

// Subscribers reports how many viewers are attached to postID.
func (b *CommentBus) Subscribers(postID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[postID])
}

// Close ends every subscription. Later Subscribe and Publish calls fail
// with ErrClosed.
func (b *CommentBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for postID, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, postID)
	}
}
