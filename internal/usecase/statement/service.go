package statement

import (
	"context"
	"strings"
	"time"

	"github.com/josevenzke/bank-api/internal/domain"
)

// QueryInput holds the raw date range bounds of a statement request
// Empty strings mean the bound was not supplied
type QueryInput struct {
	Start string
	End   string
}

// StatementService answers transaction log queries
type StatementService struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository

	// Now is the clock used for an open-ended range; nil means time.Now
	Now func() time.Time
}

// NewStatementService creates a new StatementService instance
func NewStatementService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
) *StatementService {
	return &StatementService{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
	}
}

// Query returns the account's transactions, optionally limited to a date range
// Logic:
//  1. The account must exist
//  2. No bounds: every transaction of the account
//  3. Start only: from start through now
//  4. Both: from start through end; a date-only end covers that whole day
//  5. End only, unparseable bounds or start after end fail with InvalidDateRange
func (s *StatementService) Query(ctx context.Context, accountID int64, input QueryInput) ([]*domain.Transaction, error) {
	dateRange, err := s.parseRange(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.TransactionRepo.ListByAccount(ctx, accountID, dateRange)
}

func (s *StatementService) parseRange(input QueryInput) (*domain.DateRange, error) {
	rawStart := strings.TrimSpace(input.Start)
	rawEnd := strings.TrimSpace(input.End)

	if rawStart == "" && rawEnd == "" {
		return nil, nil
	}
	if rawStart == "" {
		return nil, domain.NewValidationError(domain.KindInvalidDateRange, "data_inicial", "a start date is required when an end date is given")
	}

	start, _, ok := parseBound(rawStart)
	if !ok {
		return nil, domain.NewValidationError(domain.KindInvalidDateRange, "data_inicial", "date must use the format YYYY-MM-DD or RFC 3339")
	}

	var end time.Time
	if rawEnd == "" {
		end = s.now()
	} else {
		t, dateOnly, ok := parseBound(rawEnd)
		if !ok {
			return nil, domain.NewValidationError(domain.KindInvalidDateRange, "data_final", "date must use the format YYYY-MM-DD or RFC 3339")
		}
		end = t
		if dateOnly {
			end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}

	if start.After(end) {
		return nil, domain.NewValidationError(domain.KindInvalidDateRange, "data_inicial", "start date must not be after end date")
	}

	return &domain.DateRange{Start: start, End: end}, nil
}

func (s *StatementService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// parseBound reads a YYYY-MM-DD date in local time or an RFC 3339 timestamp
func parseBound(raw string) (t time.Time, dateOnly bool, ok bool) {
	if t, err := time.ParseInLocation(domain.DateLayout, raw, time.Local); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}
