// Package error defines domain-specific errors for the Pantry Ledger application.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when no budget has been set up yet.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrInvalidDepositAmount is returned when a deposit amount is zero or negative.
	ErrInvalidDepositAmount = errors.New("deposit amount must be positive")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BGT-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	ErrCodeBudgetNotFound       BudgetErrorCode = "BGT-010001"
	ErrCodeInvalidDepositAmount BudgetErrorCode = "BGT-010002"
	ErrCodeMissingBudgetFields  BudgetErrorCode = "BGT-010003"
	ErrCodeBudgetConflict       BudgetErrorCode = "BGT-030001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
