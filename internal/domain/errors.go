package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrWalletNotFound is returned when no wallet exists for the requested user
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTemplateNotFound is returned when a template does not exist
	ErrTemplateNotFound = errors.New("template not found")

	// ErrPriceChangeNotFound is returned when a price history entry does not exist
	ErrPriceChangeNotFound = errors.New("price change not found")

	// ErrForbidden is returned when a caller accesses a template they do not own
	ErrForbidden = errors.New("access denied")

	// ErrTemplateInactive is returned when a download is attempted against a deactivated template
	ErrTemplateInactive = errors.New("template is not active")

	// ErrStorageConflict is returned after bounded retries of a transient commit
	// conflict have been exhausted
	ErrStorageConflict = errors.New("storage conflict, try again")
)

// InsufficientFundsError is returned when a debit exceeds the wallet balance.
// It carries both amounts so callers can surface the shortfall.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: need %s, have %s", e.Required, e.Available)
}

// ValidationError is returned for invalid caller input (page count out of range,
// non-positive amounts, missing page data). It is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
