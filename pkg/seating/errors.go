package seating

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arnavshah/seating-api-go/pkg/models"
)

var (
	// ErrInvalidInput is returned when a record references something that does not exist
	// or carries an out-of-range value. Nothing is computed when it is returned.
	ErrInvalidInput = errors.New("seating: invalid input")
	// ErrConstraintConflict is returned when the hard constraints contradict each other
	// and the caller did not ask for conflicting constraints to be dropped.
	ErrConstraintConflict = errors.New("seating: contradictory constraints")
)

// InputError lists every malformed reference found in a request
type InputError struct {
	Issues []string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	switch len(e.Issues) {
	case 0:
		return ErrInvalidInput.Error()
	case 1:
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Issues[0])
	default:
		return fmt.Sprintf("%s: %s (and %d more)", ErrInvalidInput, e.Issues[0], len(e.Issues)-1)
	}
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func (e *InputError) add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

func (e *InputError) merge(other *InputError) {
	if other != nil {
		e.Issues = append(e.Issues, other.Issues...)
	}
}

// orNil returns nil when no issue was recorded so callers can return it directly.
func (e *InputError) orNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

// ConflictError carries the contradictions found by the constraint validator
type ConflictError struct {
	Conflicts []models.ConstraintConflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message)
	}
	return fmt.Sprintf("%s: %s", ErrConstraintConflict, strings.Join(msgs, "; "))
}

// Unwrap allows errors.Is(err, ErrConstraintConflict).
func (e *ConflictError) Unwrap() error {
	return ErrConstraintConflict
}
