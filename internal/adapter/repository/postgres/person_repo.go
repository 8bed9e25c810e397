package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josevenzke/bank-api/internal/domain"
)

// personRepository implements domain.PersonRepository
type personRepository struct {
	db *DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *DB) domain.PersonRepository {
	return &personRepository{db: db}
}

// Create inserts the person and assigns the generated ID
func (r *personRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `
		INSERT INTO pessoas (nome, cpf, data_nascimento)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, person.Name, person.NationalID, person.BirthDate).Scan(&person.ID)
	if err != nil {
		if pqCode(err) == uniqueViolation {
			return fmt.Errorf("failed to create person: %w", domain.ErrDuplicateNationalID)
		}
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

// GetByID retrieves a person by its ID
func (r *personRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	query := `
		SELECT id, nome, cpf, data_nascimento
		FROM pessoas
		WHERE id = $1
	`

	var person domain.Person
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&person.ID,
		&person.Name,
		&person.NationalID,
		&person.BirthDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person by ID: %w", err)
	}

	return &person, nil
}

// List retrieves all persons ordered by ID
func (r *personRepository) List(ctx context.Context) ([]*domain.Person, error) {
	query := `
		SELECT id, nome, cpf, data_nascimento
		FROM pessoas
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	persons := make([]*domain.Person, 0)
	for rows.Next() {
		var person domain.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.NationalID, &person.BirthDate); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, &person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating persons: %w", err)
	}

	return persons, nil
}

// Delete removes the person; accounts and transactions go with it through ON DELETE CASCADE
func (r *personRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pessoas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("person %d: %w", id, domain.ErrNotFound))
}
