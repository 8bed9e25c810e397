package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josevenzke/bank-api/internal/domain"
)

const accountColumns = `id, saldo, limite_saque_diario, flag_ativo, tipo_conta, data_criacao, pessoa_id`

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts the account and assigns the generated ID
// A missing owner surfaces as domain.ErrNotFound
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO contas (saldo, limite_saque_diario, flag_ativo, tipo_conta, data_criacao, pessoa_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		account.Balance.String(),
		account.DailyWithdrawalLimit.String(),
		account.Active,
		account.Type,
		account.CreatedAt,
		account.PersonID,
	).Scan(&account.ID)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("failed to create account: person %d: %w", account.PersonID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM contas WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// List retrieves all accounts ordered by ID
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM contas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// SetActive updates the active flag
func (r *accountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contas SET flag_ativo = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update account active flag: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("account %d: %w", id, domain.ErrNotFound))
}

// Delete removes the account; its transactions go with it through ON DELETE CASCADE
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("account %d: %w", id, domain.ErrNotFound))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var balanceStr, limitStr string

	if err := row.Scan(
		&account.ID,
		&balanceStr,
		&limitStr,
		&account.Active,
		&account.Type,
		&account.CreatedAt,
		&account.PersonID,
	); err != nil {
		return nil, err
	}

	// Parse saldo and limite_saque_diario (NUMERIC)
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse saldo: %w", err)
	}
	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse limite_saque_diario: %w", err)
	}
	account.Balance = balance
	account.DailyWithdrawalLimit = limit

	return &account, nil
}
