package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PersonRepository defines the interface for person persistence operations
type PersonRepository interface {
	// Create stores a new person and assigns its ID
	// Returns ErrDuplicateNationalID when the national id is taken
	Create(ctx context.Context, person *Person) error

	// GetByID retrieves a person by its ID
	GetByID(ctx context.Context, id int64) (*Person, error)

	// List retrieves all persons in insertion order
	List(ctx context.Context) ([]*Person, error)

	// Delete removes a person together with its accounts and their transactions
	Delete(ctx context.Context, id int64) error
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// Create stores a new account and assigns its ID
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id int64) (*Account, error)

	// List retrieves all accounts in insertion order
	List(ctx context.Context) ([]*Account, error)

	// SetActive updates the active flag
	SetActive(ctx context.Context, id int64, active bool) error

	// Delete removes an account together with its transactions
	Delete(ctx context.Context, id int64) error
}

// TransactionRepository defines the interface for the transaction log
type TransactionRepository interface {
	// Append inserts tx and sets its account's balance to balance in one atomic write
	Append(ctx context.Context, tx *Transaction, balance decimal.Decimal) error

	// ListByAccount retrieves the account's transactions ordered by timestamp
	// If dateRange is nil, returns all of them
	ListByAccount(ctx context.Context, accountID int64, dateRange *DateRange) ([]*Transaction, error)

	// SumByKind totals the values of one kind with timestamp in [from, to)
	SumByKind(ctx context.Context, accountID int64, kind TransactionKind, from, to time.Time) (decimal.Decimal, error)
}
