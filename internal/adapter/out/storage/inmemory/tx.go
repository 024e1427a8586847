package inmemory

import (
	"context"
	"sync"
)

// TxManager serializes multi-step writes. There is no rollback: a failed
// step leaves the earlier steps applied.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}
