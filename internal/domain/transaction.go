package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind tags the direction of a transaction
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "deposito"
	TransactionKindWithdrawal TransactionKind = "saque"
)

// Transaction is an append-only record of a value-changing operation on an account
type Transaction struct {
	ID        uuid.UUID
	AccountID int64
	Value     decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Kind      TransactionKind
	Timestamp time.Time
}

// NewTransaction creates a transaction with a fresh id
func NewTransaction(accountID int64, value decimal.Decimal, kind TransactionKind, at time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Value:     value,
		Kind:      kind,
		Timestamp: at,
	}
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.AccountID <= 0 {
		return errors.New("transaction must belong to an account")
	}
	if t.Value.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction value must be positive")
	}
	if t.Kind != TransactionKindDeposit && t.Kind != TransactionKindWithdrawal {
		return errors.New("transaction kind must be deposito or saque")
	}
	if t.Timestamp.IsZero() {
		return errors.New("transaction timestamp must be set")
	}
	return nil
}

// Signed returns the value with the sign implied by the kind
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == TransactionKindWithdrawal {
		return t.Value.Neg()
	}
	return t.Value
}

// DateRange is an inclusive time interval used to filter the transaction log
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
