// Package error defines domain-specific errors for the Pantry Ledger application.
package error

import "errors"

// Shopping list domain errors.
var (
	// ErrShoppingListItemNotFound is returned when a list item does not exist.
	ErrShoppingListItemNotFound = errors.New("shopping list item not found")

	// ErrInvalidListQuantity is returned when a list quantity is not positive.
	ErrInvalidListQuantity = errors.New("quantity must be greater than zero")

	// ErrListProductNotFound is returned when the referenced product does not exist.
	ErrListProductNotFound = errors.New("product not found")
)

// ShoppingListErrorCode defines error codes for shopping list errors.
// Format: SHL-XXYYYY where XX is category and YYYY is specific error.
type ShoppingListErrorCode string

const (
	ErrCodeShoppingListItemNotFound ShoppingListErrorCode = "SHL-010001"
	ErrCodeInvalidListQuantity      ShoppingListErrorCode = "SHL-010002"
	ErrCodeListProductNotFound      ShoppingListErrorCode = "SHL-010003"
	ErrCodeMissingListFields        ShoppingListErrorCode = "SHL-010004"
)

// ShoppingListError represents a shopping list error with code and message.
type ShoppingListError struct {
	Code    ShoppingListErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ShoppingListError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ShoppingListError) Unwrap() error {
	return e.Err
}

// NewShoppingListError creates a new ShoppingListError with the given code and message.
func NewShoppingListError(code ShoppingListErrorCode, message string, err error) *ShoppingListError {
	return &ShoppingListError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
