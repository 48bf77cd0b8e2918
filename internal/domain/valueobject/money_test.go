package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsWholeCents(t *testing.T) {
	tests := []struct {
		amount   string
		expected bool
	}{
		{"0", true},
		{"12", true},
		{"1.1", true},
		{"1.10", true},
		{"1.100", true},
		{"-4.25", true},
		{"0.333", false},
		{"0.001", false},
		{"19.995", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWholeCents(decimal.RequireFromString(tt.amount)))
		})
	}
}
