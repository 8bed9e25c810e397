package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq" // PostgreSQL driver
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=bank sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the ledger tables when they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	log.Println("Running migrations...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS pessoas (
			id BIGSERIAL PRIMARY KEY,
			nome VARCHAR(50) NOT NULL,
			cpf CHAR(11) NOT NULL UNIQUE,
			data_nascimento DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contas (
			id BIGSERIAL PRIMARY KEY,
			saldo NUMERIC(11,2) NOT NULL CHECK (saldo >= 0),
			limite_saque_diario NUMERIC(11,2) NOT NULL CHECK (limite_saque_diario >= 0),
			flag_ativo BOOLEAN NOT NULL DEFAULT TRUE,
			tipo_conta INTEGER NOT NULL DEFAULT 1,
			data_criacao TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			pessoa_id BIGINT NOT NULL REFERENCES pessoas(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS transacoes (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			conta_id BIGINT NOT NULL REFERENCES contas(id) ON DELETE CASCADE,
			valor NUMERIC(11,2) NOT NULL CHECK (valor > 0),
			tipo VARCHAR(10) NOT NULL CHECK (tipo IN ('deposito', 'saque')),
			data_transacao TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transacoes_conta_data ON transacoes(conta_id, data_transacao)`,
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("Migrations completed successfully")
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// pqCode returns the SQLSTATE of a driver error, or "" for anything else
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// expectOneRow turns a zero-row update or delete into domain.ErrNotFound
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
