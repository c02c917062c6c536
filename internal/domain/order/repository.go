package order

import "context"

// Repository is the ledger collaborator interface for orders. FindByCodeForUpdate
// must be called inside a transaction; it takes a row lock so concurrent
// settlement attempts for the same code serialize at the database as well.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByCode(ctx context.Context, code string) (*Order, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*Order, error)
	FindActiveBySession(ctx context.Context, sessionToken string) (*Order, error)
	// SaveState persists the order's current state, version and timestamps.
	SaveState(ctx context.Context, o *Order) error
	// AddSettlementRecord inserts the record row. A unique-constraint
	// violation on (order, reference) is reported as a duplicate error the
	// caller can detect with errors.IsDuplicateError.
	AddSettlementRecord(ctx context.Context, o *Order, rec SettlementRecord) error
}
