package repositories

import "context"

// TransactionManager runs a unit of work inside one database transaction.
// Repository calls made with the context passed to fn join that transaction.
// Nested calls reuse the outer transaction.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
