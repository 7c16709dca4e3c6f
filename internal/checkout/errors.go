package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrMissingAddress       = errors.New("shipping address is required")
	ErrMissingPhone         = errors.New("phone is required")
	ErrMissingToken         = errors.New("idempotency token is required")
	ErrSubmissionInProgress = errors.New("checkout submission already in progress")
	ErrIllegalTransition    = errors.New("illegal transition of checkout state")
	ErrNoOrder              = errors.New("order api returned no order")
)

// ValidationError is returned before any request leaves the process.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
