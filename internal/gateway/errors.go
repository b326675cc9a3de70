package gateway

import (
	"errors"
	"fmt"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
)

// Error is a failed gateway call. It always matches apperrors.ErrGateway.
type Error struct {
	Operation  string
	StatusCode int // 0 for transport failures
	Retryable  bool
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway %s failed: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("gateway %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrGateway}
	}
	return []error{apperrors.ErrGateway, e.Err}
}

// IsRetryable reports whether err is a gateway failure worth retrying later.
func IsRetryable(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Retryable
}
