package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josevenzke/bank-api/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Append writes the new balance and inserts the transaction in one database transaction
func (r *transactionRepository) Append(ctx context.Context, tx *domain.Transaction, balance decimal.Decimal) error {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Update the balance first so the row lock is held until commit
	res, err := dbTx.ExecContext(ctx, `UPDATE contas SET saldo = $1 WHERE id = $2`, balance.String(), tx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if err := expectOneRow(res, fmt.Errorf("failed to append transaction: account %d: %w", tx.AccountID, domain.ErrNotFound)); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO transacoes (id, conta_id, valor, tipo, data_transacao)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = dbTx.ExecContext(ctx, insertQuery,
		tx.ID,
		tx.AccountID,
		tx.Value.String(),
		string(tx.Kind),
		tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByAccount retrieves the account's transactions ordered by timestamp, then insertion
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID int64, dateRange *domain.DateRange) ([]*domain.Transaction, error) {
	query := `
		SELECT id, conta_id, valor, tipo, data_transacao
		FROM transacoes
		WHERE conta_id = $1
	`
	args := []interface{}{accountID}
	if dateRange != nil {
		query += ` AND data_transacao >= $2 AND data_transacao <= $3`
		args = append(args, dateRange.Start, dateRange.End)
	}
	query += ` ORDER BY data_transacao, seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var valueStr, kind string
		if err := rows.Scan(&tx.ID, &tx.AccountID, &valueStr, &kind, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valor: %w", err)
		}
		tx.Value = value
		tx.Kind = domain.TransactionKind(kind)

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// SumByKind totals the values of one kind with timestamp in [from, to)
func (r *transactionRepository) SumByKind(ctx context.Context, accountID int64, kind domain.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(valor), 0)::text
		FROM transacoes
		WHERE conta_id = $1 AND tipo = $2 AND data_transacao >= $3 AND data_transacao < $4
	`

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, accountID, string(kind), from, to).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse transaction sum: %w", err)
	}
	return total, nil
}
