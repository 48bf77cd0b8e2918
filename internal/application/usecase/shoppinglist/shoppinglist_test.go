package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/usecase/usecasetest"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

func listCode(t *testing.T, err error) domainerror.ShoppingListErrorCode {
	t.Helper()
	var listErr *domainerror.ShoppingListError
	require.True(t, errors.As(err, &listErr), "expected ShoppingListError, got %v", err)
	return listErr.Code
}

func newToggle(l *usecasetest.Ledger) *TogglePurchasedUseCase {
	return NewTogglePurchasedUseCase(l, l.ShoppingList(), l.Products(), l.Categories(), l.Drafts())
}

func TestAddItem(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	uc := NewAddItemUseCase(ledger, ledger.ShoppingList(), ledger.Products())

	first, err := uc.Execute(context.Background(), AddItemInput{ProductID: rice.ID, Quantity: 2})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), AddItemInput{ProductID: rice.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, first.Item.ID, second.Item.ID)
	require.Len(t, ledger.State.List, 1)
	assert.Equal(t, 5, ledger.State.List[first.Item.ID].Quantity)

	_, err = uc.Execute(context.Background(), AddItemInput{ProductID: rice.ID, Quantity: 0})
	assert.Equal(t, domainerror.ErrCodeInvalidListQuantity, listCode(t, err))

	_, err = uc.Execute(context.Background(), AddItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.Equal(t, domainerror.ErrCodeListProductNotFound, listCode(t, err))
}

func TestTogglePurchased_MergesSnapshotIntoDraft(t *testing.T) {
	ledger := usecasetest.NewLedger()
	category := ledger.SeedCategory("Grains")
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	ledger.State.Products[rice.ID].CategoryID = &category.ID
	a := ledger.SeedListItem(rice, 2)
	b := ledger.SeedListItem(rice, 3)
	uc := newToggle(ledger)

	out, err := uc.Execute(context.Background(), TogglePurchasedInput{ID: a.ID})
	require.NoError(t, err)
	assert.True(t, out.Item.Purchased)
	assert.NotNil(t, out.Item.PurchaseDate)

	_, err = uc.Execute(context.Background(), TogglePurchasedInput{ID: b.ID})
	require.NoError(t, err)

	draft := ledger.State.Draft
	require.Len(t, draft.Items, 1, "at most one entry per product")
	assert.Equal(t, 5, draft.Items[0].Quantity)
	assert.Equal(t, "Grains", draft.Items[0].CategoryName)
	assert.True(t, decimal.RequireFromString("10.00").Equal(draft.Items[0].Price))
}

func TestTogglePurchased_UnmarkSubtractsFromDraft(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	item := ledger.SeedListItem(rice, 2)
	uc := newToggle(ledger)

	_, err := uc.Execute(context.Background(), TogglePurchasedInput{ID: item.ID})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), TogglePurchasedInput{ID: item.ID})
	require.NoError(t, err)

	assert.False(t, out.Item.Purchased)
	assert.Nil(t, out.Item.PurchaseDate)
	assert.True(t, ledger.State.Draft.IsEmpty())
}

func TestTogglePurchased_SnapshotIsNotSynced(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	item := ledger.SeedListItem(rice, 1)

	_, err := newToggle(ledger).Execute(context.Background(), TogglePurchasedInput{ID: item.ID})
	require.NoError(t, err)

	ledger.State.Products[rice.ID].Price = decimal.RequireFromString("99.00")
	ledger.State.Products[rice.ID].Name = "Brown rice"

	assert.True(t, decimal.RequireFromString("10.00").Equal(ledger.State.Draft.Items[0].Price))
	assert.Equal(t, "Rice", ledger.State.Draft.Items[0].Name)
}

func TestTogglePurchased_UnknownItem(t *testing.T) {
	ledger := usecasetest.NewLedger()

	_, err := newToggle(ledger).Execute(context.Background(), TogglePurchasedInput{ID: uuid.New()})

	assert.Equal(t, domainerror.ErrCodeShoppingListItemNotFound, listCode(t, err))
	assert.Zero(t, ledger.Writes)
}

func TestUpdateQuantity_FollowsDraftForPurchasedItems(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	item := ledger.SeedListItem(rice, 4)
	_, err := newToggle(ledger).Execute(context.Background(), TogglePurchasedInput{ID: item.ID})
	require.NoError(t, err)

	uc := NewUpdateQuantityUseCase(ledger, ledger.ShoppingList(), ledger.Products(), ledger.Categories(), ledger.Drafts())

	_, err = uc.Execute(context.Background(), UpdateQuantityInput{ID: item.ID, Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, ledger.State.Draft.Items[0].Quantity)

	_, err = uc.Execute(context.Background(), UpdateQuantityInput{ID: item.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.State.Draft.Items[0].Quantity)

	_, err = uc.Execute(context.Background(), UpdateQuantityInput{ID: item.ID, Quantity: -1})
	assert.Equal(t, domainerror.ErrCodeInvalidListQuantity, listCode(t, err))
}

func TestDeleteItem(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	item := ledger.SeedListItem(rice, 1)
	uc := NewDeleteItemUseCase(ledger.ShoppingList())

	require.NoError(t, uc.Execute(context.Background(), item.ID))
	assert.Empty(t, ledger.State.List)

	err := uc.Execute(context.Background(), item.ID)
	assert.Equal(t, domainerror.ErrCodeShoppingListItemNotFound, listCode(t, err))
}

func TestListItems(t *testing.T) {
	ledger := usecasetest.NewLedger()
	rice := ledger.SeedProduct("Rice", "10.00", 0)
	ledger.SeedListItem(rice, 1)

	out, err := NewListItemsUseCase(ledger.ShoppingList()).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Rice", out.Items[0].Product.Name)
}
