// Package memory keeps persons, accounts and the transaction log in process.
// It mirrors the relational store: sequences for ids, a unique national id,
// cascading deletes and atomic balance-plus-transaction writes.
package memory

import (
	"sync"

	"github.com/josevenzke/bank-api/internal/domain"
)

// Store holds all state behind a single RWMutex
type Store struct {
	mu sync.RWMutex

	nextPersonID  int64
	nextAccountID int64

	persons      []*domain.Person
	accounts     []*domain.Account
	transactions []*domain.Transaction
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Persons returns the person repository view of the store
func (s *Store) Persons() domain.PersonRepository {
	return &personRepository{s: s}
}

// Accounts returns the account repository view of the store
func (s *Store) Accounts() domain.AccountRepository {
	return &accountRepository{s: s}
}

// Transactions returns the transaction log view of the store
func (s *Store) Transactions() domain.TransactionRepository {
	return &transactionRepository{s: s}
}

// findAccount must be called with s.mu held
func (s *Store) findAccount(id int64) (int, *domain.Account) {
	for i, a := range s.accounts {
		if a.ID == id {
			return i, a
		}
	}
	return -1, nil
}

// deleteAccountsWhere must be called with s.mu held for writing
func (s *Store) deleteAccountsWhere(match func(a *domain.Account) bool) {
	removed := make(map[int64]bool)
	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if match(a) {
			removed[a.ID] = true
			continue
		}
		kept = append(kept, a)
	}
	s.accounts = kept

	if len(removed) == 0 {
		return
	}
	txs := s.transactions[:0]
	for _, tx := range s.transactions {
		if !removed[tx.AccountID] {
			txs = append(txs, tx)
		}
	}
	s.transactions = txs
}
