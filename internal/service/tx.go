package service

import "context"

// TxManager runs fn inside one storage transaction. Storages pick the
// transaction up from the context passed to fn.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
