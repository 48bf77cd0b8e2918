// Package error defines domain-specific errors for the Pantry Ledger application.
package error

import "errors"

// Product domain errors.
var (
	// ErrProductNotFound is returned when a product is not found in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductNameExists is returned when another product already uses the name (case-insensitive).
	ErrProductNameExists = errors.New("product name already exists")

	// ErrProductNameRequired is returned when the product name is blank.
	ErrProductNameRequired = errors.New("product name is required")

	// ErrInvalidProductPrice is returned when the price is negative.
	ErrInvalidProductPrice = errors.New("invalid product price")

	// ErrInvalidProductQuantity is returned when a quantity is negative or not positive where required.
	ErrInvalidProductQuantity = errors.New("invalid product quantity")

	// ErrInvalidMinStock is returned when the minimum stock level is negative.
	ErrInvalidMinStock = errors.New("invalid minimum stock")

	// ErrInsufficientStock is returned when consuming more units than are in stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductErrorCode defines error codes for product errors.
// Format: PRD-XXYYYY where XX is category and YYYY is specific error.
type ProductErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeProductNotFound        ProductErrorCode = "PRD-010001"
	ErrCodeProductNameExists      ProductErrorCode = "PRD-010002"
	ErrCodeProductNameRequired    ProductErrorCode = "PRD-010003"
	ErrCodeInvalidProductPrice    ProductErrorCode = "PRD-010004"
	ErrCodeInvalidProductQuantity ProductErrorCode = "PRD-010005"
	ErrCodeInvalidMinStock        ProductErrorCode = "PRD-010006"
	ErrCodeProductCategoryMissing ProductErrorCode = "PRD-010007"
	ErrCodeMissingProductFields   ProductErrorCode = "PRD-010008"

	// Stock errors (02XXXX)
	ErrCodeInsufficientStock ProductErrorCode = "PRD-020001"
	ErrCodeStockConflict     ProductErrorCode = "PRD-030001"
)

// ProductError represents a product error with code and message.
type ProductError struct {
	Code    ProductErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProductError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ProductError) Unwrap() error {
	return e.Err
}

// NewProductError creates a new ProductError with the given code and message.
func NewProductError(code ProductErrorCode, message string, err error) *ProductError {
	return &ProductError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
