package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAccountType is assigned when the caller does not choose one
const DefaultAccountType = 1

// Account represents a ledger account owned by a Person
type Account struct {
	ID                   int64
	Balance              decimal.Decimal
	DailyWithdrawalLimit decimal.Decimal
	Active               bool
	Type                 int
	CreatedAt            time.Time
	PersonID             int64
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Balance.IsNegative() {
		return errors.New("account balance cannot be negative")
	}
	if a.DailyWithdrawalLimit.IsNegative() {
		return errors.New("daily withdrawal limit cannot be negative")
	}
	if a.Balance.GreaterThan(MaxMoney) || a.DailyWithdrawalLimit.GreaterThan(MaxMoney) {
		return errors.New("money value exceeds storage precision")
	}
	if a.Type <= 0 {
		return errors.New("account type must be positive")
	}
	if a.PersonID <= 0 {
		return errors.New("account must belong to a person")
	}
	return nil
}

// Apply moves the balance by the signed value of tx
// The caller is responsible for the insufficient-funds and daily-limit checks
func (a *Account) Apply(tx *Transaction) {
	a.Balance = a.Balance.Add(tx.Signed())
}

// DayWindow returns [local midnight, next local midnight) around now
func DayWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
