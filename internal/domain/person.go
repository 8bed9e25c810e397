package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// NationalIDLength is the exact number of digits of a CPF
	NationalIDLength = 11

	// MaxNameLength bounds Person.Name
	MaxNameLength = 50

	// DateLayout is the wire format of calendar dates
	DateLayout = "2006-01-02"
)

// Person represents an account holder
type Person struct {
	ID         int64
	Name       string
	NationalID string
	BirthDate  time.Time
}

// Validate ensures the person adheres to domain rules
// All failing fields are reported together
func (p *Person) Validate() error {
	var errs FieldErrors

	switch {
	case strings.TrimSpace(p.Name) == "":
		errs.Add(NewValidationError(KindRequiredField, "nome", "this field is required"))
	case utf8.RuneCountInString(p.Name) > MaxNameLength:
		errs.Add(NewValidationError(KindFormat, "nome", "name must have at most 50 characters"))
	}

	errs.Add(ValidateNationalID(p.NationalID))

	if p.BirthDate.IsZero() {
		errs.Add(NewValidationError(KindRequiredField, "dataNascimento", "this field is required"))
	}

	return errs.Err()
}

// ValidateNationalID checks that id is exactly 11 ASCII digits
func ValidateNationalID(id string) *ValidationError {
	if id == "" {
		return NewValidationError(KindRequiredField, "cpf", "this field is required")
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return NewValidationError(KindFormat, "cpf", "national id must contain only digits")
		}
	}
	if len(id) != NationalIDLength {
		return NewValidationError(KindFormat, "cpf", "national id must have exactly 11 digits")
	}
	return nil
}
