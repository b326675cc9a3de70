package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned for failures that should not leak details to clients.
var ErrInternal = errors.New("internal error")

// ErrOrderNotFound is returned when an order does not exist within the tenant.
var ErrOrderNotFound = fmt.Errorf("order not found: %w", ErrNotFound)

// ErrInsufficientStock is returned when a product cannot cover the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrAlreadyProcessed is returned when a payment was already requested for an order.
var ErrAlreadyProcessed = errors.New("payment already processed")

// ErrAlreadyFinalized is returned when a terminal record is asked to transition again.
var ErrAlreadyFinalized = errors.New("already finalized")

// ErrIllegalTransition is returned when a state machine rejects an event outright.
var ErrIllegalTransition = errors.New("illegal state transition")

// ErrGateway wraps every failure talking to the payment gateway.
var ErrGateway = errors.New("payment gateway error")

// ErrPersistence wraps storage failures.
var ErrPersistence = errors.New("persistence error")

// AppError carries an HTTP-ish status code together with the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. A 5xx code with a non-sentinel cause is
// tagged as ErrPersistence so callers can match it with errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	if code >= 500 && err != nil && !errors.Is(err, ErrPersistence) && !errors.Is(err, ErrGateway) {
		err = errors.Join(ErrPersistence, err)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrLockNotObtained is returned when a distributed lock is held elsewhere.
var ErrLockNotObtained = errors.New("lock not obtained")
