package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReceiptPath(t *testing.T) {
	id := uuid.MustParse("6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11")

	tests := []struct {
		contentType string
		expected    string
	}{
		{"image/jpeg", "receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt.jpg"},
		{"image/png", "receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt.png"},
		{"image/gif", "receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt.gif"},
		{"application/pdf", "receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt.pdf"},
		{"text/plain", "receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReceiptPath(id, tt.contentType))
		})
	}
}

func TestReceiptDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected string
	}{
		{"plain name", "scan.pdf", "scan.pdf"},
		{"directory components dropped", "photos/2026/till.jpg", "till.jpg"},
		{"windows separators dropped", `C:\Users\me\till.jpg`, "till.jpg"},
		{"parent directory", "..", "receipt.pdf"},
		{"current directory", ".", "receipt.pdf"},
		{"root", "/", "receipt.pdf"},
		{"empty", "", "receipt.pdf"},
		{"blank", "   ", "receipt.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReceiptDisplayName(tt.fileName, "application/pdf"))
		})
	}
}
