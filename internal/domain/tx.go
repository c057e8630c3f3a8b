package domain

import "context"

// TxManager runs fn inside a single all-or-nothing transaction. Repositories
// invoked with the context passed to fn join that transaction; a nested
// WithTx joins the outer one instead of opening its own.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
