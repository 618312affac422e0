package domain

import "fmt"

// Error types for consistent error handling across the API.

// ValidationReason is a machine-readable code the frontend switches on
// to highlight the offending form field.
type ValidationReason string

const (
	ReasonMissingSourceAccount ValidationReason = "missing_source_account"
	ReasonMissingAmount        ValidationReason = "missing_amount"
	ReasonInsufficientFunds    ValidationReason = "insufficient_funds"
	ReasonAmountMismatch       ValidationReason = "amount_mismatch"
)

// ErrValidation indicates a rejected input. Reason is stable; Message
// is for humans.
type ErrValidation struct {
	Reason  ValidationReason
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Reason, e.Message)
}

// ErrInvalidArgument indicates a malformed request parameter, e.g. an
// unknown period selector. Never defaulted silently.
type ErrInvalidArgument struct {
	Field   string
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
}

// ErrInvalidState indicates an operation that does not apply to the
// entity in its current state, e.g. a statement on an account with no
// credit limit, or confirming a cancelled transaction.
type ErrInvalidState struct {
	Entity  string
	Message string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("invalid state [%s]: %s", e.Entity, e.Message)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthenticated indicates missing or invalid credentials. The
// frontend treats any 401 as a forced sign-out.
type ErrUnauthenticated struct {
	Message string
}

func (e *ErrUnauthenticated) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthenticated"
}

// ErrConflict indicates a resource already exists (e.g. duplicate email).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrCircuitOpen indicates the database circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}
