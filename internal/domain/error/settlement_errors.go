// Package error defines domain-specific errors for the Pantry Ledger application.
package error

import "errors"

// Settlement and reversal domain errors.
var (
	// ErrEmptyDraft is returned when settling a draft purchase with no items.
	ErrEmptyDraft = errors.New("draft purchase has no items")

	// ErrInvalidReceipt is returned when the receipt is missing, too large or of an unsupported type.
	ErrInvalidReceipt = errors.New("invalid receipt")

	// ErrReceiptUpload is returned when the receipt could not be stored.
	ErrReceiptUpload = errors.New("receipt upload failed")

	// ErrPurchaseNotFound is returned when a purchase record does not exist.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrNotMostRecent is returned when reversing a purchase that is not the latest one.
	ErrNotMostRecent = errors.New("only the most recent purchase can be reversed")

	// ErrReversalExpired is returned when the reversal window of a purchase has passed.
	ErrReversalExpired = errors.New("reversal window has expired")

	// ErrInvalidDraftPrice is returned when a draft item price is negative.
	ErrInvalidDraftPrice = errors.New("price must not be negative")

	// ErrDraftItemNotFound is returned when the product is not part of the draft purchase.
	ErrDraftItemNotFound = errors.New("item not found in draft purchase")

	// ErrSettlementInProgress is returned when another settlement or reversal holds the lock.
	ErrSettlementInProgress = errors.New("another settlement is in progress")
)

// SettlementErrorCode defines error codes for settlement errors.
// Format: STL-XXYYYY where XX is category and YYYY is specific error.
type SettlementErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyDraft         SettlementErrorCode = "STL-010001"
	ErrCodeReceiptRequired    SettlementErrorCode = "STL-010002"
	ErrCodeReceiptTooLarge    SettlementErrorCode = "STL-010003"
	ErrCodeReceiptType        SettlementErrorCode = "STL-010004"
	ErrCodeInvalidDraftPrice  SettlementErrorCode = "STL-010005"
	ErrCodeDraftItemNotFound  SettlementErrorCode = "STL-010006"
	ErrCodeMissingDraftFields SettlementErrorCode = "STL-010007"

	// Dependency errors (02XXXX)
	ErrCodeNoBudget         SettlementErrorCode = "STL-020001"
	ErrCodePurchaseNotFound SettlementErrorCode = "STL-020002"

	// I/O and concurrency errors (03XXXX)
	ErrCodeConcurrentModification SettlementErrorCode = "STL-030001"
	ErrCodeReceiptUpload          SettlementErrorCode = "STL-030002"
	ErrCodeSettlementInProgress   SettlementErrorCode = "STL-030003"

	// Reversal policy errors (04XXXX)
	ErrCodeNotMostRecent   SettlementErrorCode = "STL-040001"
	ErrCodeReversalExpired SettlementErrorCode = "STL-040002"
)

// SettlementError represents a settlement or reversal error with code and message.
type SettlementError struct {
	Code    SettlementErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SettlementError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SettlementError) Unwrap() error {
	return e.Err
}

// NewSettlementError creates a new SettlementError with the given code and message.
func NewSettlementError(code SettlementErrorCode, message string, err error) *SettlementError {
	return &SettlementError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
