package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an entity id does not resolve
	ErrNotFound = errors.New("not found")

	// ErrDuplicateNationalID is returned by person stores when the national id is already taken
	ErrDuplicateNationalID = errors.New("national id already registered")
)

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	KindRequiredField      ErrorKind = "RequiredFieldError"
	KindFormat             ErrorKind = "FormatError"
	KindUniqueness         ErrorKind = "UniquenessError"
	KindReference          ErrorKind = "ReferenceError"
	KindInvalidAmount      ErrorKind = "InvalidAmount"
	KindInsufficientFunds  ErrorKind = "InsufficientFunds"
	KindDailyLimitExceeded ErrorKind = "DailyLimitExceeded"
	KindInvalidDateRange   ErrorKind = "InvalidDateRange"
	KindAccountBlocked     ErrorKind = "AccountBlocked"
)

// ValidationError is a recoverable input or business-rule failure tied to a request field
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

// NewValidationError creates a ValidationError
func NewValidationError(kind ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors collects every field failure of one input, in field order
type FieldErrors []*ValidationError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, e := range fe {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add appends a failure when err is non-nil
func (fe *FieldErrors) Add(err *ValidationError) {
	if err != nil {
		*fe = append(*fe, err)
	}
}

// Err returns nil when no failures were collected
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// KindOf returns the kind of the first validation failure carried by err,
// or the empty kind when err is not a validation failure
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	var fe FieldErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return fe[0].Kind
	}
	return ""
}

// IsValidation reports whether err is a client-side validation failure
func IsValidation(err error) bool {
	return KindOf(err) != ""
}
