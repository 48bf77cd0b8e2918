package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Settlement.ReversalWindow)
	assert.Equal(t, int64(10<<20), cfg.Settlement.MaxReceiptBytes)
	assert.Equal(t, 3, cfg.Settlement.MaxRetries)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageGCS)
	t.Setenv("STORAGE_BUCKET", "receipts")
	t.Setenv("REVERSAL_WINDOW", "2h")
	t.Setenv("MAX_RECEIPT_BYTES", "1024")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SETTLEMENT_MAX_RETRIES", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pantry.example.org, http://localhost:5173,")

	cfg := Load()

	assert.Equal(t, StorageGCS, cfg.Storage.Backend)
	assert.Equal(t, "receipts", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Hour, cfg.Settlement.ReversalWindow)
	assert.Equal(t, int64(1024), cfg.Settlement.MaxReceiptBytes)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 3, cfg.Settlement.MaxRetries, "unparsable values fall back to the default")
	assert.Equal(t, []string{"https://pantry.example.org", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
}
