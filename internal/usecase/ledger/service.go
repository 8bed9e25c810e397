package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josevenzke/bank-api/internal/domain"
)

// Policy holds the configurable ledger rules
type Policy struct {
	// EnforceActive rejects deposits and withdrawals on blocked accounts
	EnforceActive bool
}

// OpenInput represents the raw input for opening an account
// Empty strings mean the field was not supplied
type OpenInput struct {
	Balance     string
	DailyLimit  string
	PersonID    string
	AccountType string
}

// LedgerService owns account balances and the money-moving operations.
// Deposit, withdraw, block, unblock and remove are serialized per account.
type LedgerService struct {
	PersonRepo      domain.PersonRepository
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Policy          Policy

	// Now is the ledger clock; nil means time.Now
	Now func() time.Time

	locks *accountLocks
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(
	personRepo domain.PersonRepository,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	policy Policy,
) *LedgerService {
	return &LedgerService{
		PersonRepo:      personRepo,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Policy:          policy,
		locks:           newAccountLocks(),
	}
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Open validates the input and creates an active account
// Logic:
//  1. saldo and limiteSaqueDiario are required, numeric, non-negative
//  2. pessoa is required, an integer, and must reference an existing person
//  3. tipoConta is optional (default 1)
//  4. The active flag is always true on creation
func (s *LedgerService) Open(ctx context.Context, input OpenInput) (*domain.Account, error) {
	var errs domain.FieldErrors

	balance, err := parseOpeningMoney("saldo", input.Balance)
	errs.Add(err)
	limit, err := parseOpeningMoney("limiteSaqueDiario", input.DailyLimit)
	errs.Add(err)

	var personID int64
	switch raw := strings.TrimSpace(input.PersonID); {
	case raw == "":
		errs.Add(domain.NewValidationError(domain.KindRequiredField, "pessoa", "this field is required"))
	default:
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || id <= 0 {
			errs.Add(domain.NewValidationError(domain.KindFormat, "pessoa", "a valid integer is required"))
			break
		}
		if _, gerr := s.PersonRepo.GetByID(ctx, id); gerr != nil {
			if !errors.Is(gerr, domain.ErrNotFound) {
				return nil, gerr
			}
			errs.Add(referenceError(id))
			break
		}
		personID = id
	}

	accountType := domain.DefaultAccountType
	if raw := strings.TrimSpace(input.AccountType); raw != "" {
		t, terr := strconv.Atoi(raw)
		if terr != nil || t <= 0 {
			errs.Add(domain.NewValidationError(domain.KindFormat, "tipoConta", "a valid positive integer is required"))
		} else {
			accountType = t
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	account := &domain.Account{
		Balance:              balance,
		DailyWithdrawalLimit: limit,
		Active:               true,
		Type:                 accountType,
		CreatedAt:            s.now(),
		PersonID:             personID,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		// the person was removed between the lookup and the insert
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.FieldErrors{referenceError(personID)}
		}
		return nil, err
	}

	return account, nil
}

// List returns every account in insertion order
func (s *LedgerService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.AccountRepo.List(ctx)
}

// Get returns one account or an error wrapping domain.ErrNotFound
func (s *LedgerService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.AccountRepo.GetByID(ctx, id)
}

// Balance returns the current balance of an account
func (s *LedgerService) Balance(ctx context.Context, id int64) (decimal.Decimal, error) {
	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Deposit credits amount to the account and records a deposito transaction
// The active flag is only checked when Policy.EnforceActive is set
func (s *LedgerService) Deposit(ctx context.Context, accountID int64, rawAmount string) (*domain.Account, *domain.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkActive(account); err != nil {
		return nil, nil, err
	}
	if account.Balance.Add(amount).GreaterThan(domain.MaxMoney) {
		return nil, nil, domain.NewValidationError(domain.KindInvalidAmount, "valor", "resulting balance exceeds the supported precision")
	}

	tx := domain.NewTransaction(account.ID, amount, domain.TransactionKindDeposit, s.now())
	return s.post(ctx, account, tx)
}

// Withdraw debits amount from the account and records a saque transaction
// Logic:
//  1. amount must be present, numeric and positive (InvalidAmount)
//  2. amount must not exceed the balance (InsufficientFunds)
//  3. today's withdrawals plus amount must not exceed the daily limit (DailyLimitExceeded)
//
// Checks 2 and 3 and the write run under the account lock.
func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, rawAmount string) (*domain.Account, *domain.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkActive(account); err != nil {
		return nil, nil, err
	}

	if amount.GreaterThan(account.Balance) {
		return nil, nil, domain.NewValidationError(domain.KindInsufficientFunds, "valor", "you do not have enough balance")
	}

	now := s.now()
	from, to := domain.DayWindow(now)
	spent, err := s.TransactionRepo.SumByKind(ctx, account.ID, domain.TransactionKindWithdrawal, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute daily withdrawals: %w", err)
	}
	if spent.Add(amount).GreaterThan(account.DailyWithdrawalLimit) {
		return nil, nil, domain.NewValidationError(domain.KindDailyLimitExceeded, "limiteSaqueDiario",
			fmt.Sprintf("daily withdrawal limit of %s exceeded; %s already withdrawn today",
				domain.FormatMoney(account.DailyWithdrawalLimit), domain.FormatMoney(spent)))
	}

	tx := domain.NewTransaction(account.ID, amount, domain.TransactionKindWithdrawal, now)
	return s.post(ctx, account, tx)
}

// post applies tx to account and persists both in one write
// The caller must hold the account lock
func (s *LedgerService) post(ctx context.Context, account *domain.Account, tx *domain.Transaction) (*domain.Account, *domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, nil, err
	}

	account.Apply(tx)

	if err := s.TransactionRepo.Append(ctx, tx, account.Balance); err != nil {
		return nil, nil, err
	}

	log.Printf("ledger: %s %s on account %d, balance %s", tx.Kind, domain.FormatMoney(tx.Value), account.ID, domain.FormatMoney(account.Balance))
	return account, tx, nil
}

// Block marks the account inactive; blocking a blocked account is a no-op
func (s *LedgerService) Block(ctx context.Context, id int64) (*domain.Account, error) {
	return s.setActive(ctx, id, false)
}

// Unblock marks the account active; unblocking an active account is a no-op
func (s *LedgerService) Unblock(ctx context.Context, id int64) (*domain.Account, error) {
	return s.setActive(ctx, id, true)
}

func (s *LedgerService) setActive(ctx context.Context, id int64, active bool) (*domain.Account, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.AccountRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Printf("ledger: account %d active=%t", id, active)
	return account, nil
}

// Remove deletes an account together with its transactions
func (s *LedgerService) Remove(ctx context.Context, id int64) error {
	unlock := s.locks.lock(id)
	defer unlock()

	return s.AccountRepo.Delete(ctx, id)
}

func (s *LedgerService) checkActive(account *domain.Account) error {
	if s.Policy.EnforceActive && !account.Active {
		return domain.NewValidationError(domain.KindAccountBlocked, "flagAtivo", "account is blocked")
	}
	return nil
}

// parseAmount validates a deposit or withdrawal amount
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := domain.ParseMoney(raw)
	if errors.Is(err, domain.ErrMoneyOutOfRange) {
		return decimal.Zero, domain.NewValidationError(domain.KindInvalidAmount, "valor", "valor exceeds the supported precision")
	}
	if err != nil {
		return decimal.Zero, domain.NewValidationError(domain.KindInvalidAmount, "valor", "make sure valor exists and is numeric")
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.NewValidationError(domain.KindInvalidAmount, "valor", "valor must be greater than zero")
	}
	return amount, nil
}

// parseOpeningMoney validates saldo and limiteSaqueDiario
func parseOpeningMoney(field, raw string) (decimal.Decimal, *domain.ValidationError) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, domain.NewValidationError(domain.KindRequiredField, field, "this field is required")
	}
	tooLarge := domain.NewValidationError(domain.KindFormat, field, "ensure that there are no more than 11 digits in total")
	d, err := domain.ParseMoney(raw)
	if errors.Is(err, domain.ErrMoneyOutOfRange) {
		return decimal.Zero, tooLarge
	}
	if err != nil {
		return decimal.Zero, domain.NewValidationError(domain.KindFormat, field, "a valid number is required")
	}
	if d.IsNegative() {
		return decimal.Zero, domain.NewValidationError(domain.KindFormat, field, "ensure this value is greater than or equal to 0")
	}
	if d.GreaterThan(domain.MaxMoney) {
		return decimal.Zero, tooLarge
	}
	return d, nil
}

func referenceError(personID int64) *domain.ValidationError {
	return domain.NewValidationError(domain.KindReference, "pessoa",
		fmt.Sprintf("invalid pk %d - object does not exist", personID))
}
