package memory

import (
	"context"
	"fmt"

	"github.com/josevenzke/bank-api/internal/domain"
)

// personRepository implements domain.PersonRepository
type personRepository struct {
	s *Store
}

// Create creates a new person
func (r *personRepository) Create(ctx context.Context, person *domain.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.persons {
		if p.NationalID == person.NationalID {
			return fmt.Errorf("failed to create person: %w", domain.ErrDuplicateNationalID)
		}
	}

	r.s.nextPersonID++
	person.ID = r.s.nextPersonID
	cp := *person
	r.s.persons = append(r.s.persons, &cp)
	return nil
}

// GetByID retrieves a person by its ID
func (r *personRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.persons {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("person %d: %w", id, domain.ErrNotFound)
}

// List retrieves all persons
func (r *personRepository) List(ctx context.Context) ([]*domain.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Person, 0, len(r.s.persons))
	for _, p := range r.s.persons {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// Delete removes a person, its accounts and their transactions
func (r *personRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := -1
	for i, p := range r.s.persons {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("person %d: %w", id, domain.ErrNotFound)
	}

	r.s.persons = append(r.s.persons[:idx], r.s.persons[idx+1:]...)
	r.s.deleteAccountsWhere(func(a *domain.Account) bool { return a.PersonID == id })
	return nil
}
