package appointments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

var (
	ErrPastDate          = errors.New("appointment start time must be in the future")
	ErrSlotTaken         = errors.New("time slot is already taken")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrIdempotencyConflict means an idempotency key was reused for a different booking.
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different appointment")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InvalidTransitionError struct {
	From domain.Status
	To   domain.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// StoreError wraps a persistence failure. It is the only kind worth retrying.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsRetryable reports whether err may succeed if the same call is repeated.
func IsRetryable(err error) bool {
	var sErr *StoreError
	return errors.As(err, &sErr)
}
