package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by storage when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDuplicateCode indicates a product with the same business code exists.
	ErrDuplicateCode = errors.New("duplicate product code")
	// ErrRateUnavailable indicates the exchange rate could not be obtained.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Errorf builds an error whose message is the formatted text and which
// matches kind under errors.Is.
func Errorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// ValidationError carries field-level messages for ErrInvalidInput.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
