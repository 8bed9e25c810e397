package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "Deposit should pass",
			tx:   *NewTransaction(1, decimal.NewFromInt(10), TransactionKindDeposit, now),
		},
		{
			name: "Withdrawal should pass",
			tx:   *NewTransaction(1, decimal.RequireFromString("0.01"), TransactionKindWithdrawal, now),
		},
		{
			name:    "Zero value should fail",
			tx:      *NewTransaction(1, decimal.Zero, TransactionKindDeposit, now),
			wantErr: true,
			errMsg:  "transaction value must be positive",
		},
		{
			name:    "Negative value should fail",
			tx:      *NewTransaction(1, decimal.NewFromInt(-5), TransactionKindWithdrawal, now),
			wantErr: true,
			errMsg:  "transaction value must be positive",
		},
		{
			name:    "Unknown kind should fail",
			tx:      *NewTransaction(1, decimal.NewFromInt(5), TransactionKind("estorno"), now),
			wantErr: true,
			errMsg:  "transaction kind must be deposito or saque",
		},
		{
			name:    "Missing account should fail",
			tx:      *NewTransaction(0, decimal.NewFromInt(5), TransactionKindDeposit, now),
			wantErr: true,
			errMsg:  "transaction must belong to an account",
		},
		{
			name: "Missing timestamp should fail",
			tx: Transaction{
				ID:        uuid.New(),
				AccountID: 1,
				Value:     decimal.NewFromInt(5),
				Kind:      TransactionKindDeposit,
			},
			wantErr: true,
			errMsg:  "transaction timestamp must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_Signed(t *testing.T) {
	v := decimal.RequireFromString("20.00")
	assert.True(t, v.Equal(NewTransaction(1, v, TransactionKindDeposit, time.Now()).Signed()))
	assert.True(t, v.Neg().Equal(NewTransaction(1, v, TransactionKindWithdrawal, time.Now()).Signed()))
}

func TestDateRange_Contains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	r := DateRange{Start: start, End: end}

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.True(t, r.Contains(start.Add(24*time.Hour)))
	assert.False(t, r.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(end.Add(time.Nanosecond)))
}
