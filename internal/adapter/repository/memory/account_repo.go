package memory

import (
	"context"
	"fmt"

	"github.com/josevenzke/bank-api/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	s *Store
}

// Create creates a new account
// The owning person must exist, like the foreign key of the relational schema
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	owned := false
	for _, p := range r.s.persons {
		if p.ID == account.PersonID {
			owned = true
			break
		}
	}
	if !owned {
		return fmt.Errorf("failed to create account: person %d: %w", account.PersonID, domain.ErrNotFound)
	}

	r.s.nextAccountID++
	account.ID = r.s.nextAccountID
	cp := *account
	r.s.accounts = append(r.s.accounts, &cp)
	return nil
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, a := r.s.findAccount(id)
	if a == nil {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

// List retrieves all accounts
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// SetActive updates the active flag of an account
func (r *accountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, a := r.s.findAccount(id)
	if a == nil {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	a.Active = active
	return nil
}

// Delete removes an account and its transactions
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, a := r.s.findAccount(id); a == nil {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	r.s.deleteAccountsWhere(func(a *domain.Account) bool { return a.ID == id })
	return nil
}
