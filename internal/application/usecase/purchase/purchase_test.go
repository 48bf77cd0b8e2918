package purchase

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

func seedPurchase(l *usecasetest.Ledger, at time.Time, total string) *entity.PurchaseRecord {
	items := []entity.PurchaseItem{{ProductID: uuid.New(), Name: "Rice", Quantity: 1, Price: decimal.RequireFromString(total)}}
	p := entity.NewPurchaseRecord(uuid.New(), items, decimal.RequireFromString("100.00"), at, nil)
	l.State.Purchases[p.ID] = p
	return p
}

func TestListPurchases_Paginates(t *testing.T) {
	ledger := usecasetest.NewLedger()
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		seedPurchase(ledger, now.Add(-time.Duration(i)*time.Hour), "1.00")
	}
	uc := NewListPurchasesUseCase(ledger.Purchases())

	result, err := uc.Execute(context.Background(), ListPurchasesInput{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Purchases, 2)
	assert.True(t, result.Purchases[0].Date.After(result.Purchases[1].Date))

	result, err = uc.Execute(context.Background(), ListPurchasesInput{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, MaxPageSize, result.Limit)
}

func TestGetPurchase_Reversible(t *testing.T) {
	ledger := usecasetest.NewLedger()
	now := time.Now().UTC()
	older := seedPurchase(ledger, now.Add(-2*time.Hour), "5.00")
	latest := seedPurchase(ledger, now.Add(-time.Hour), "6.00")
	uc := NewGetPurchaseUseCase(ledger.Purchases(), 24*time.Hour)

	out, err := uc.Execute(context.Background(), latest.ID)
	require.NoError(t, err)
	assert.True(t, out.Reversible)

	out, err = uc.Execute(context.Background(), older.ID)
	require.NoError(t, err)
	assert.False(t, out.Reversible)

	_, err = uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrPurchaseNotFound)
}

type recordingExporter struct {
	exported []*entity.PurchaseRecord
}

func (e *recordingExporter) ContentType() string { return "text/plain" }

func (e *recordingExporter) Export(w io.Writer, purchases []*entity.PurchaseRecord) error {
	e.exported = purchases
	_, err := io.WriteString(w, "ok")
	return err
}

func TestExportPurchases(t *testing.T) {
	ledger := usecasetest.NewLedger()
	now := time.Now().UTC()
	seedPurchase(ledger, now.Add(-time.Hour), "5.00")
	seedPurchase(ledger, now, "6.00")
	exporter := &recordingExporter{}
	uc := NewExportPurchasesUseCase(ledger.Purchases(), exporter)

	var buf bytes.Buffer
	require.NoError(t, uc.Execute(context.Background(), &buf))

	assert.Equal(t, "ok", buf.String())
	require.Len(t, exporter.exported, 2)
	assert.True(t, decimal.RequireFromString("6.00").Equal(exporter.exported[0].TotalAmount))
	assert.Equal(t, "text/plain", uc.ContentType())
}
