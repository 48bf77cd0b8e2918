// Package entity defines the core business entities for the domain layer.
package entity

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// receiptExtensions maps accepted receipt content types to the extension used in storage keys.
var receiptExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// Receipt is an uploaded receipt file, treated as an opaque blob.
type Receipt struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Size returns the receipt size in bytes.
func (r *Receipt) Size() int64 {
	return int64(len(r.Data))
}

// StoredReceipt references a receipt persisted in the receipt store.
type StoredReceipt struct {
	Path       string
	URL        string
	Name       string
	UploadedAt time.Time
}

// ReceiptExtension returns the file extension for a sniffed receipt content type.
func ReceiptExtension(contentType string) string {
	return receiptExtensions[contentType]
}

// ReceiptPath returns the storage key for a purchase receipt. The key depends only on
// the purchase and the sniffed content type, never on the uploaded file name.
func ReceiptPath(purchaseID uuid.UUID, contentType string) string {
	return path.Join("receipts", purchaseID.String(), "receipt"+ReceiptExtension(contentType))
}

// ReceiptDisplayName returns the name shown for an uploaded receipt.
// Names without a usable base fall back to receipt plus the type's extension.
func ReceiptDisplayName(fileName, contentType string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return "receipt" + ReceiptExtension(contentType)
	}
	return base
}
