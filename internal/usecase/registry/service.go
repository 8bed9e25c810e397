package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/josevenzke/bank-api/internal/domain"
)

// RegisterInput represents the raw input for registering a person
type RegisterInput struct {
	Name       string
	NationalID string
	BirthDate  string // YYYY-MM-DD
}

// RegistryService handles person registration and lookup
type RegistryService struct {
	PersonRepo domain.PersonRepository
}

// NewRegistryService creates a new RegistryService instance
func NewRegistryService(personRepo domain.PersonRepository) *RegistryService {
	return &RegistryService{PersonRepo: personRepo}
}

// Register validates and stores a new person
// Logic:
//  1. Parse the birth date (required, YYYY-MM-DD)
//  2. Validate every field and report all failures together
//  3. Create; a taken national id becomes a UniquenessError on "cpf"
func (s *RegistryService) Register(ctx context.Context, input RegisterInput) (*domain.Person, error) {
	person := &domain.Person{
		Name:       strings.TrimSpace(input.Name),
		NationalID: input.NationalID,
	}

	var birthErr *domain.ValidationError
	if input.BirthDate != "" {
		birth, err := time.Parse(domain.DateLayout, strings.TrimSpace(input.BirthDate))
		if err != nil {
			birthErr = domain.NewValidationError(domain.KindFormat, "dataNascimento", "date must use the format YYYY-MM-DD")
		} else {
			person.BirthDate = birth
		}
	}

	if err := person.Validate(); err != nil {
		var errs domain.FieldErrors
		if !errors.As(err, &errs) {
			return nil, err
		}
		// an unparseable date is reported as a format error, not as missing
		for i, e := range errs {
			if e.Field == "dataNascimento" && birthErr != nil {
				errs[i] = birthErr
			}
		}
		return nil, errs
	}

	if err := s.PersonRepo.Create(ctx, person); err != nil {
		if errors.Is(err, domain.ErrDuplicateNationalID) {
			return nil, domain.FieldErrors{
				domain.NewValidationError(domain.KindUniqueness, "cpf", "a person with this national id already exists"),
			}
		}
		return nil, err
	}

	return person, nil
}

// List returns every registered person in insertion order
func (s *RegistryService) List(ctx context.Context) ([]*domain.Person, error) {
	return s.PersonRepo.List(ctx)
}

// Get returns one person or an error wrapping domain.ErrNotFound
func (s *RegistryService) Get(ctx context.Context, id int64) (*domain.Person, error) {
	return s.PersonRepo.GetByID(ctx, id)
}

// Remove deletes a person together with its accounts and transactions
func (s *RegistryService) Remove(ctx context.Context, id int64) error {
	return s.PersonRepo.Delete(ctx, id)
}
