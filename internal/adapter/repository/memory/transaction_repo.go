package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josevenzke/bank-api/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	s *Store
}

// Append inserts tx and sets the account balance under one lock acquisition
func (r *transactionRepository) Append(ctx context.Context, tx *domain.Transaction, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, a := r.s.findAccount(tx.AccountID)
	if a == nil {
		return fmt.Errorf("failed to append transaction: account %d: %w", tx.AccountID, domain.ErrNotFound)
	}

	cp := *tx
	r.s.transactions = append(r.s.transactions, &cp)
	a.Balance = balance
	return nil
}

// ListByAccount retrieves the account's transactions ordered by timestamp
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID int64, dateRange *domain.DateRange) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Transaction, 0)
	for _, tx := range r.s.transactions {
		if tx.AccountID != accountID {
			continue
		}
		if dateRange != nil && !dateRange.Contains(tx.Timestamp) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}

	// Stable keeps insertion order for equal timestamps
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// SumByKind totals the values of one kind with timestamp in [from, to)
func (r *transactionRepository) SumByKind(ctx context.Context, accountID int64, kind domain.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range r.s.transactions {
		if tx.AccountID != accountID || tx.Kind != kind {
			continue
		}
		if tx.Timestamp.Before(from) || !tx.Timestamp.Before(to) {
			continue
		}
		total = total.Add(tx.Value)
	}
	return total, nil
}
