package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josevenzke/bank-api/internal/domain"
)

func seedAccount(t *testing.T, s *Store, cpf string) (*domain.Person, *domain.Account) {
	t.Helper()
	ctx := context.Background()

	p := &domain.Person{Name: "João", NationalID: cpf, BirthDate: time.Date(1999, 10, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Persons().Create(ctx, p))

	a := &domain.Account{
		Balance:              decimal.NewFromInt(100),
		DailyWithdrawalLimit: decimal.NewFromInt(50),
		Active:               true,
		Type:                 domain.DefaultAccountType,
		CreatedAt:            time.Now(),
		PersonID:             p.ID,
	}
	require.NoError(t, s.Accounts().Create(ctx, a))
	return p, a
}

func TestPersonRepository_UniqueNationalID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p1 := &domain.Person{Name: "A", NationalID: "12345678910"}
	require.NoError(t, s.Persons().Create(ctx, p1))
	assert.Equal(t, int64(1), p1.ID)

	err := s.Persons().Create(ctx, &domain.Person{Name: "B", NationalID: "12345678910"})
	assert.ErrorIs(t, err, domain.ErrDuplicateNationalID)

	p2 := &domain.Person{Name: "C", NationalID: "10987654321"}
	require.NoError(t, s.Persons().Create(ctx, p2))
	assert.Equal(t, int64(2), p2.ID)

	all, err := s.Persons().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[1].Name)
}

func TestPersonRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, _ := seedAccount(t, s, "12345678910")

	got, err := s.Persons().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Persons().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", again.Name)

	_, err = s.Persons().GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_CreateRequiresPerson(t *testing.T) {
	s := NewStore()
	err := s.Accounts().Create(context.Background(), &domain.Account{PersonID: 7, Type: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, a := seedAccount(t, s, "12345678910")

	require.NoError(t, s.Accounts().SetActive(ctx, a.ID, false))
	got, err := s.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, s.Accounts().SetActive(ctx, 42, true), domain.ErrNotFound)
}

func TestPersonRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, a := seedAccount(t, s, "12345678910")
	_, other := seedAccount(t, s, "10987654321")

	now := time.Now()
	require.NoError(t, s.Transactions().Append(ctx, domain.NewTransaction(a.ID, decimal.NewFromInt(5), domain.TransactionKindDeposit, now), decimal.NewFromInt(105)))
	require.NoError(t, s.Transactions().Append(ctx, domain.NewTransaction(other.ID, decimal.NewFromInt(5), domain.TransactionKindDeposit, now), decimal.NewFromInt(105)))

	require.NoError(t, s.Persons().Delete(ctx, p.ID))

	_, err := s.Accounts().GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	txs, err := s.Transactions().ListByAccount(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, txs)

	txs, err = s.Transactions().ListByAccount(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	assert.ErrorIs(t, s.Persons().Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestTransactionRepository_AppendSetsBalance(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, a := seedAccount(t, s, "12345678910")

	tx := domain.NewTransaction(a.ID, decimal.RequireFromString("10.50"), domain.TransactionKindDeposit, time.Now())
	require.NoError(t, s.Transactions().Append(ctx, tx, decimal.RequireFromString("110.50")))

	got, err := s.Accounts().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.50", domain.FormatMoney(got.Balance))

	err = s.Transactions().Append(ctx, domain.NewTransaction(99, decimal.NewFromInt(1), domain.TransactionKindDeposit, time.Now()), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionRepository_ListAndSum(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, a := seedAccount(t, s, "12345678910")

	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	entries := []struct {
		at    time.Time
		value int64
		kind  domain.TransactionKind
	}{
		{day.Add(10 * time.Hour), 20, domain.TransactionKindWithdrawal},
		{day.Add(-time.Hour), 30, domain.TransactionKindWithdrawal},
		{day.Add(9 * time.Hour), 100, domain.TransactionKindDeposit},
		{day.Add(24 * time.Hour), 15, domain.TransactionKindWithdrawal},
		{day.Add(11 * time.Hour), 5, domain.TransactionKindWithdrawal},
	}
	for _, e := range entries {
		tx := domain.NewTransaction(a.ID, decimal.NewFromInt(e.value), e.kind, e.at)
		require.NoError(t, s.Transactions().Append(ctx, tx, decimal.NewFromInt(100)))
	}

	all, err := s.Transactions().ListByAccount(ctx, a.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.Before(all[i-1].Timestamp))
	}

	ranged, err := s.Transactions().ListByAccount(ctx, a.ID, &domain.DateRange{Start: day, End: day.Add(24*time.Hour - time.Nanosecond)})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	sum, err := s.Transactions().SumByKind(ctx, a.ID, domain.TransactionKindWithdrawal, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(sum), "got %s", sum)
}
