package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBudgetRepository_VersionedUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewBudgetRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)

	budget := entity.NewBudget(now)
	require.NoError(t, repo.Create(ctx, budget))
	assert.Equal(t, int64(1), budget.Version)

	stale, err := repo.Get(ctx)
	require.NoError(t, err)

	entry := budget.Apply(entity.BudgetEntryDeposit, dec("500.00"), now, nil, nil)
	require.NoError(t, repo.Update(ctx, budget))
	require.NoError(t, repo.AppendEntry(ctx, entry))
	assert.Equal(t, int64(2), budget.Version)

	stale.Apply(entity.BudgetEntryDeposit, dec("1.00"), now, nil, nil)
	assert.ErrorIs(t, repo.Update(ctx, stale), domainerror.ErrConcurrentModification)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Current.Equal(dec("500")))
	require.NotNil(t, got.LatestUpdate)
	assert.True(t, got.LatestUpdate.Amount.Equal(dec("500")))
}

func TestBudgetRepository_SecondCreateIsConcurrentModification(t *testing.T) {
	ctx := context.Background()
	repo := NewBudgetRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := entity.NewBudget(now)
	first.Apply(entity.BudgetEntryDeposit, dec("100.00"), now, nil, nil)
	require.NoError(t, repo.Create(ctx, first))

	second := entity.NewBudget(now)
	second.Apply(entity.BudgetEntryDeposit, dec("25.00"), now, nil, nil)
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, domainerror.ErrConcurrentModification)
	assert.True(t, domainerror.IsRetryable(err))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Current.Equal(dec("100")))
	assert.Equal(t, int64(1), got.Version)
}

func TestBudgetRepository_EntriesNewestFirstAndSum(t *testing.T) {
	ctx := context.Background()
	repo := NewBudgetRepository(newTestDB(t))
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	budget := entity.NewBudget(start)
	require.NoError(t, repo.Create(ctx, budget))

	deltas := []string{"500.00", "-30.10", "-0.20", "30.10"}
	for i, d := range deltas {
		kind := entity.BudgetEntryPurchase
		if i == 0 {
			kind = entity.BudgetEntryDeposit
		}
		entry := budget.Apply(kind, dec(d), start.Add(time.Duration(i)*time.Minute), nil, nil)
		require.NoError(t, repo.AppendEntry(ctx, entry))
	}

	entries, err := repo.ListEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Amount.Equal(dec("30.10")))
	assert.True(t, entries[1].Amount.Equal(dec("-0.20")))

	sum, err := repo.SumEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "499.80", sum.StringFixed(2))
}

func TestProductRepository_Queries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepository(db)

	categoryID := uuid.New()
	rice := entity.NewProduct("Rice", &categoryID, dec("2.50"), 5, 10, "")
	beans := entity.NewProduct("Beans", nil, dec("1.25"), 40, 10, "")
	require.NoError(t, repo.Create(ctx, rice))
	require.NoError(t, repo.Create(ctx, beans))

	t.Run("find by ids skips unknown", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{rice.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Rice", products[0].Name)
	})

	t.Run("find first by name", func(t *testing.T) {
		p, err := repo.FindFirstByName(ctx, "Beans")
		require.NoError(t, err)
		assert.Equal(t, beans.ID, p.ID)

		_, err = repo.FindFirstByName(ctx, "Pasta")
		assert.ErrorIs(t, err, domainerror.ErrProductNotFound)
	})

	t.Run("name exists ignoring case", func(t *testing.T) {
		exists, err := repo.ExistsByNameFold(ctx, "rICE", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNameFold(ctx, "rice", &rice.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list filters", func(t *testing.T) {
		low, err := repo.List(ctx, adapter.ProductFilter{LowStock: true})
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, rice.ID, low[0].ID)

		byCategory, err := repo.List(ctx, adapter.ProductFilter{CategoryID: &categoryID})
		require.NoError(t, err)
		assert.Len(t, byCategory, 1)

		search, err := repo.List(ctx, adapter.ProductFilter{Search: "EAN"})
		require.NoError(t, err)
		require.Len(t, search, 1)
		assert.Equal(t, "Beans", search[0].Name)

		count, err := repo.CountByCategory(ctx, categoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("stale update is rejected", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, rice.ID)
		require.NoError(t, err)

		rice.AddStock(3, time.Now().UTC())
		require.NoError(t, repo.Update(ctx, rice))

		stale.AddStock(1, time.Now().UTC())
		assert.ErrorIs(t, repo.Update(ctx, stale), domainerror.ErrConcurrentModification)

		got, err := repo.FindByID(ctx, rice.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, got.Quantity)
	})
}

func TestDraftPurchaseRepository_SaveReplacesItems(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftPurchaseRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	draft, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, draft.IsEmpty())

	first := entity.DraftItem{ProductID: uuid.New(), Name: "Rice", Quantity: 3, Price: dec("10.00")}
	second := entity.DraftItem{ProductID: uuid.New(), Name: "Beans", CategoryName: "Dry goods", Quantity: 1, Price: dec("0.99")}
	draft.Merge(first, now)
	draft.Merge(second, now)
	require.NoError(t, repo.Save(ctx, draft))

	draft.Remove(first.ProductID, now)
	require.NoError(t, repo.Save(ctx, draft))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Beans", got.Items[0].Name)
	assert.Equal(t, "Dry goods", got.Items[0].CategoryName)
	assert.True(t, got.Total().Equal(dec("0.99")))

	got.Clear(now)
	require.NoError(t, repo.Save(ctx, got))
	cleared, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
}

func TestPurchaseRepository_RoundTripAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewPurchaseRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	items := []entity.PurchaseItem{
		{ProductID: uuid.New(), Name: "Rice", Quantity: 3, Price: dec("10.00")},
		{ProductID: uuid.New(), Name: "Milk", Quantity: 2, Price: dec("0.50")},
	}

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := entity.NewPurchaseRecord(uuid.New(), items, dec("500"), base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	got, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Rice", got.Items[0].Name)
	assert.Equal(t, "Milk", got.Items[1].Name)
	assert.Equal(t, "31.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "469.00", got.BudgetAfter.StringFixed(2))

	recent, err := repo.FindMostRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], recent.ID)

	page, err := repo.List(ctx, adapter.PurchasePagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Purchases, 1)
	assert.Equal(t, ids[0], page.Purchases[0].ID)

	require.NoError(t, repo.Delete(ctx, ids[2]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[2]), domainerror.ErrPurchaseNotFound)

	var orphans int64
	require.NoError(t, conn(ctx, repo.(*purchaseRepository).db).
		Model(&model.PurchaseItemModel{}).Where("purchase_id = ?", ids[2]).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestShoppingListRepository_DeleteByProductIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	products := NewProductRepository(db)
	list := NewShoppingListRepository(db)

	rice := entity.NewProduct("Rice", nil, dec("2.50"), 5, 10, "")
	require.NoError(t, products.Create(ctx, rice))

	removed := entity.NewShoppingListItem(rice.ID, 2, nil)
	kept := entity.NewShoppingListItem(uuid.New(), 1, nil)
	kept.CreatedAt = removed.CreatedAt.Add(time.Second)
	require.NoError(t, list.Create(ctx, removed))
	require.NoError(t, list.Create(ctx, kept))

	items, err := list.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Rice", items[0].Product.Name)
	assert.Nil(t, items[1].Product)

	n, err := list.DeleteByProductIDs(ctx, []uuid.UUID{rice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = list.FindByID(ctx, removed.ID)
	assert.ErrorIs(t, err, domainerror.ErrShoppingListItemNotFound)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	products := NewProductRepository(db)
	budgets := NewBudgetRepository(db)

	rice := entity.NewProduct("Rice", nil, dec("2.50"), 5, 10, "")
	require.NoError(t, products.Create(ctx, rice))

	boom := errors.New("boom")
	err := tm.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, budgets.Create(ctx, entity.NewBudget(time.Now().UTC())))

		return tm.WithinTransaction(ctx, func(ctx context.Context) error {
			rice.AddStock(10, time.Now().UTC())
			if err := products.Update(ctx, rice); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	_, err = budgets.Get(ctx)
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)

	got, err := products.FindByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestCategoryRepository_CountProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)

	dry := entity.NewCategory("Dry goods", entity.DefaultCategoryColor, entity.DefaultCategoryIcon)
	require.NoError(t, categories.Create(ctx, dry))
	require.NoError(t, products.Create(ctx, entity.NewProduct("Rice", &dry.ID, dec("1"), 1, 1, "")))
	require.NoError(t, products.Create(ctx, entity.NewProduct("Pasta", &dry.ID, dec("1"), 1, 1, "")))

	counts, err := categories.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[dry.ID])

	exists, err := categories.ExistsByNameFold(ctx, "DRY GOODS", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, categories.Delete(ctx, dry.ID))
	assert.ErrorIs(t, categories.Delete(ctx, dry.ID), domainerror.ErrCategoryNotFound)
}

func TestUserRepository_FindByRole(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	admin := entity.NewUser("admin@pantry.org", "Admin", "hash", entity.RoleAdmin)
	volunteer := entity.NewUser("vol@pantry.org", "Vol", "hash", entity.RoleVolunteer)
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, volunteer))

	admins, err := repo.FindByRole(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	user := entity.NewUser("vol@pantry.org", "Vol", "old-hash", entity.RoleVolunteer)
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", stored.PasswordHash)
	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, uuid.New(), "x"), domainerror.ErrUserNotFound)
}

func TestNotificationOutbox_Lifecycle(t *testing.T) {
	ctx := context.Background()
	outbox := NewNotificationOutbox(newTestDB(t))
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	rice, purchaseID := uuid.New(), uuid.New()

	lowStock := entity.NewLowStockNotification(rice, admin, "Low stock: Rice", map[string]string{"quantity": "2"}, now)
	settled := entity.NewPurchaseSettledNotification(purchaseID, admin, "Purchase settled", nil, now.Add(time.Minute))
	later := entity.NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", nil, now.Add(time.Hour))
	for _, n := range []*entity.Notification{lowStock, settled, later} {
		require.NoError(t, outbox.Enqueue(ctx, n))
	}

	open, err := outbox.HasOpenLowStock(ctx, rice, "admin@pantry.org")
	require.NoError(t, err)
	assert.True(t, open)
	open, err = outbox.HasOpenLowStock(ctx, rice, "other@pantry.org")
	require.NoError(t, err)
	assert.False(t, open)

	due, err := outbox.Due(ctx, now.Add(2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, lowStock.ID, due[0].ID)
	require.NotNil(t, due[0].ProductID)
	assert.Equal(t, rice, *due[0].ProductID)
	assert.Equal(t, "2", due[0].Fields["quantity"])
	assert.Equal(t, purchaseID, due[1].Reference())

	due[0].MarkSending()
	due[0].MarkSent("msg-1", now.Add(2*time.Minute))
	require.NoError(t, outbox.Update(ctx, due[0]))
	open, err = outbox.HasOpenLowStock(ctx, rice, "admin@pantry.org")
	require.NoError(t, err)
	assert.False(t, open)

	cancelled, err := outbox.CancelForPurchase(ctx, purchaseID, now.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	due, err = outbox.Due(ctx, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, later.ID, due[0].ID)

	purged, err := outbox.PurgeProcessed(ctx, now.Add(4*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
}
