// Package valueobject contains domain value objects for the Pantry Ledger system.
package valueobject

import (
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxReceiptBytes is the largest receipt accepted (10 MiB).
const DefaultMaxReceiptBytes int64 = 10 << 20

// DefaultReceiptTypes are the content types accepted for receipts.
var DefaultReceiptTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
}

// ReceiptViolation names the rule a receipt broke. The zero value means none.
type ReceiptViolation string

const (
	ReceiptOK              ReceiptViolation = ""
	ReceiptMissing         ReceiptViolation = "missing"
	ReceiptTooLarge        ReceiptViolation = "too_large"
	ReceiptUnsupportedType ReceiptViolation = "unsupported_type"
)

// ReceiptPolicy holds the acceptance rules for uploaded receipts.
type ReceiptPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultReceiptPolicy returns the policy used when no override is configured.
func DefaultReceiptPolicy() ReceiptPolicy {
	return ReceiptPolicy{
		MaxBytes:     DefaultMaxReceiptBytes,
		AllowedTypes: DefaultReceiptTypes,
	}
}

// Check sniffs the content type from data and validates it against the policy.
// The declared content type of an upload is never trusted.
func (p ReceiptPolicy) Check(data []byte) (string, ReceiptViolation) {
	if len(data) == 0 {
		return "", ReceiptMissing
	}
	if int64(len(data)) > p.MaxBytes {
		return "", ReceiptTooLarge
	}

	detected := mimetype.Detect(data)
	for _, allowed := range p.AllowedTypes {
		if detected.Is(allowed) {
			return allowed, ReceiptOK
		}
	}
	return detected.String(), ReceiptUnsupportedType
}
