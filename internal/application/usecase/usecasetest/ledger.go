// Package usecasetest provides in-memory implementations of the application adapters for use case tests.
package usecasetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// ErrUnavailable simulates an unreachable store.
var ErrUnavailable = errors.New("store unavailable")

// State is everything a transaction can roll back.
type State struct {
	Budget     *entity.Budget
	Entries    []*entity.BudgetEntry
	Products   map[uuid.UUID]*entity.Product
	Categories map[uuid.UUID]*entity.Category
	Draft      *entity.DraftPurchase
	Purchases  map[uuid.UUID]*entity.PurchaseRecord
	List       map[uuid.UUID]*entity.ShoppingListItem
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	c := &State{
		Entries:    make([]*entity.BudgetEntry, len(s.Entries)),
		Products:   make(map[uuid.UUID]*entity.Product, len(s.Products)),
		Categories: make(map[uuid.UUID]*entity.Category, len(s.Categories)),
		Purchases:  make(map[uuid.UUID]*entity.PurchaseRecord, len(s.Purchases)),
		List:       make(map[uuid.UUID]*entity.ShoppingListItem, len(s.List)),
	}
	if s.Budget != nil {
		c.Budget = cloneBudget(s.Budget)
	}
	copy(c.Entries, s.Entries)
	for id, p := range s.Products {
		c.Products[id] = cloneProduct(p)
	}
	for id, cat := range s.Categories {
		cp := *cat
		c.Categories[id] = &cp
	}
	if s.Draft != nil {
		c.Draft = cloneDraft(s.Draft)
	}
	for id, p := range s.Purchases {
		c.Purchases[id] = clonePurchase(p)
	}
	for id, item := range s.List {
		cp := *item
		c.List[id] = &cp
	}
	return c
}

func cloneBudget(b *entity.Budget) *entity.Budget {
	cp := *b
	if b.LatestUpdate != nil {
		u := *b.LatestUpdate
		cp.LatestUpdate = &u
	}
	return &cp
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func cloneDraft(d *entity.DraftPurchase) *entity.DraftPurchase {
	cp := *d
	cp.Items = entity.CopyItems(d.Items)
	return &cp
}

func clonePurchase(p *entity.PurchaseRecord) *entity.PurchaseRecord {
	cp := *p
	cp.Items = entity.CopyItems(p.Items)
	return &cp
}

// Ledger is an in-memory ledger store that counts writes and rolls back failed transactions.
// It is not safe for concurrent use.
type Ledger struct {
	State *State

	Writes            int
	BudgetConflicts   int
	ProductUpdateErr  error
	PurchaseCreateErr error

	// RivalDeposit is committed by another writer while the next budget Create is in flight,
	// so that Create loses the race.
	RivalDeposit string
	rival        string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		State: &State{
			Products:   map[uuid.UUID]*entity.Product{},
			Categories: map[uuid.UUID]*entity.Category{},
			Purchases:  map[uuid.UUID]*entity.PurchaseRecord{},
			List:       map[uuid.UUID]*entity.ShoppingListItem{},
		},
	}
}

// SeedBudget creates the budget with a single deposit.
func (l *Ledger) SeedBudget(amount string, at time.Time) {
	b := entity.NewBudget(at)
	entry := b.Apply(entity.BudgetEntryDeposit, decimal.RequireFromString(amount), at, nil, nil)
	b.Version = 1
	l.State.Budget = b
	l.State.Entries = append(l.State.Entries, entry)
}

// SeedProduct adds a product without counting a write.
func (l *Ledger) SeedProduct(name, price string, quantity int) *entity.Product {
	p := entity.NewProduct(name, nil, decimal.RequireFromString(price), quantity, entity.DefaultMinStock, "")
	p.Version = 1
	l.State.Products[p.ID] = cloneProduct(p)
	return p
}

// SeedCategory adds a category without counting a write.
func (l *Ledger) SeedCategory(name string) *entity.Category {
	c := entity.NewCategory(name, "", "")
	l.State.Categories[c.ID] = c
	return c
}

// SeedDraftItem snapshots p into the draft.
func (l *Ledger) SeedDraftItem(p *entity.Product, quantity int, at time.Time) {
	if l.State.Draft == nil {
		l.State.Draft = entity.NewDraftPurchase(at)
	}
	l.State.Draft.Merge(entity.SnapshotProduct(p, "Pantry", quantity), at)
}

// SeedListItem adds a shopping list item for p.
func (l *Ledger) SeedListItem(p *entity.Product, quantity int) *entity.ShoppingListItem {
	item := entity.NewShoppingListItem(p.ID, quantity, nil)
	l.State.List[item.ID] = item
	return item
}

// Product returns the stored product.
func (l *Ledger) Product(id uuid.UUID) *entity.Product {
	return l.State.Products[id]
}

// EntriesSum returns the sum of every budget history amount.
func (l *Ledger) EntriesSum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range l.State.Entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// WithinTransaction snapshots the state and restores it when fn fails.
func (l *Ledger) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := l.State.Clone()
	writes := l.Writes
	if err := fn(ctx); err != nil {
		l.State = snapshot
		l.Writes = writes
		if l.rival != "" {
			l.SeedBudget(l.rival, time.Now().UTC())
			l.rival = ""
		}
		return err
	}
	return nil
}

// Budgets returns a BudgetRepository backed by the ledger.
func (l *Ledger) Budgets() adapter.BudgetRepository { return budgetRepo{l} }

// Products returns a ProductRepository backed by the ledger.
func (l *Ledger) Products() adapter.ProductRepository { return productRepo{l} }

// Categories returns a CategoryRepository backed by the ledger.
func (l *Ledger) Categories() adapter.CategoryRepository { return categoryRepo{l} }

// Drafts returns a DraftPurchaseRepository backed by the ledger.
func (l *Ledger) Drafts() adapter.DraftPurchaseRepository { return draftRepo{l} }

// Purchases returns a PurchaseRepository backed by the ledger.
func (l *Ledger) Purchases() adapter.PurchaseRepository { return purchaseRepo{l} }

// ShoppingList returns a ShoppingListRepository backed by the ledger.
func (l *Ledger) ShoppingList() adapter.ShoppingListRepository { return shoppingListRepo{l} }

type budgetRepo struct{ l *Ledger }

func (r budgetRepo) Get(_ context.Context) (*entity.Budget, error) {
	if r.l.State.Budget == nil {
		return nil, domainerror.ErrBudgetNotFound
	}
	return cloneBudget(r.l.State.Budget), nil
}

func (r budgetRepo) Create(_ context.Context, b *entity.Budget) error {
	if r.l.RivalDeposit != "" {
		r.l.rival, r.l.RivalDeposit = r.l.RivalDeposit, ""
		return domainerror.ErrConcurrentModification
	}
	if r.l.State.Budget != nil {
		return domainerror.ErrConcurrentModification
	}
	r.l.Writes++
	b.Version = 1
	r.l.State.Budget = cloneBudget(b)
	return nil
}

func (r budgetRepo) Update(_ context.Context, b *entity.Budget) error {
	if r.l.BudgetConflicts > 0 {
		r.l.BudgetConflicts--
		return domainerror.ErrConcurrentModification
	}
	if r.l.State.Budget == nil || r.l.State.Budget.Version != b.Version {
		return domainerror.ErrConcurrentModification
	}
	r.l.Writes++
	b.Version++
	r.l.State.Budget = cloneBudget(b)
	return nil
}

func (r budgetRepo) AppendEntry(_ context.Context, e *entity.BudgetEntry) error {
	r.l.Writes++
	r.l.State.Entries = append(r.l.State.Entries, e)
	return nil
}

func (r budgetRepo) ListEntries(_ context.Context, limit int) ([]*entity.BudgetEntry, error) {
	out := make([]*entity.BudgetEntry, 0, len(r.l.State.Entries))
	for i := len(r.l.State.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.l.State.Entries[i])
	}
	return out, nil
}

func (r budgetRepo) SumEntries(_ context.Context) (decimal.Decimal, error) {
	return r.l.EntriesSum(), nil
}

type productRepo struct{ l *Ledger }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.l.Writes++
	p.Version = 1
	r.l.State.Products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.l.State.Products[id]
	if !ok {
		return nil, domainerror.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r productRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.l.State.Products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r productRepo) FindFirstByName(_ context.Context, name string) (*entity.Product, error) {
	var first *entity.Product
	for _, p := range r.l.State.Products {
		if p.Name == name && (first == nil || p.CreatedAt.Before(first.CreatedAt)) {
			first = p
		}
	}
	if first == nil {
		return nil, domainerror.ErrProductNotFound
	}
	return cloneProduct(first), nil
}

func (r productRepo) ExistsByNameFold(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.l.State.Products {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r productRepo) List(_ context.Context, filter adapter.ProductFilter) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.l.State.Products))
	for _, p := range r.l.State.Products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	if r.l.ProductUpdateErr != nil {
		return r.l.ProductUpdateErr
	}
	stored, ok := r.l.State.Products[p.ID]
	if !ok || stored.Version != p.Version {
		return domainerror.ErrConcurrentModification
	}
	r.l.Writes++
	p.Version++
	r.l.State.Products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.l.State.Products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type categoryRepo struct{ l *Ledger }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.l.Writes++
	cp := *c
	r.l.State.Categories[c.ID] = &cp
	return nil
}

func (r categoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := r.l.State.Categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r categoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.l.State.Categories))
	for _, c := range r.l.State.Categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Category, error) {
	out := make(map[uuid.UUID]*entity.Category, len(ids))
	for _, id := range ids {
		if c, ok := r.l.State.Categories[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (r categoryRepo) ExistsByNameFold(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for _, c := range r.l.State.Categories {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	if _, ok := r.l.State.Categories[c.ID]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	r.l.Writes++
	cp := *c
	r.l.State.Categories[c.ID] = &cp
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.l.State.Categories[id]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	r.l.Writes++
	delete(r.l.State.Categories, id)
	return nil
}

func (r categoryRepo) CountProducts(_ context.Context) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	for _, p := range r.l.State.Products {
		if p.CategoryID != nil {
			out[*p.CategoryID]++
		}
	}
	return out, nil
}

type draftRepo struct{ l *Ledger }

func (r draftRepo) Get(_ context.Context) (*entity.DraftPurchase, error) {
	if r.l.State.Draft == nil {
		return entity.NewDraftPurchase(time.Now().UTC()), nil
	}
	return cloneDraft(r.l.State.Draft), nil
}

func (r draftRepo) Save(_ context.Context, d *entity.DraftPurchase) error {
	r.l.Writes++
	r.l.State.Draft = cloneDraft(d)
	return nil
}

type purchaseRepo struct{ l *Ledger }

func (r purchaseRepo) Create(_ context.Context, p *entity.PurchaseRecord) error {
	if r.l.PurchaseCreateErr != nil {
		return r.l.PurchaseCreateErr
	}
	r.l.Writes++
	r.l.State.Purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r purchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PurchaseRecord, error) {
	p, ok := r.l.State.Purchases[id]
	if !ok {
		return nil, domainerror.ErrPurchaseNotFound
	}
	return clonePurchase(p), nil
}

func (r purchaseRepo) FindMostRecent(ctx context.Context) (*entity.PurchaseRecord, error) {
	all, _ := r.ListAll(ctx)
	if len(all) == 0 {
		return nil, domainerror.ErrPurchaseNotFound
	}
	return all[0], nil
}

func (r purchaseRepo) List(ctx context.Context, pagination adapter.PurchasePagination) (*entity.PurchaseListResult, error) {
	all, _ := r.ListAll(ctx)
	total := len(all)

	start := (pagination.Page - 1) * pagination.Limit
	if start > total {
		start = total
	}
	end := start + pagination.Limit
	if end > total {
		end = total
	}

	totalPages := 0
	if pagination.Limit > 0 {
		totalPages = (total + pagination.Limit - 1) / pagination.Limit
	}

	return &entity.PurchaseListResult{
		Purchases:  all[start:end],
		Total:      int64(total),
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
	}, nil
}

func (r purchaseRepo) ListAll(_ context.Context) ([]*entity.PurchaseRecord, error) {
	out := make([]*entity.PurchaseRecord, 0, len(r.l.State.Purchases))
	for _, p := range r.l.State.Purchases {
		out = append(out, clonePurchase(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r purchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.l.State.Purchases[id]; !ok {
		return domainerror.ErrPurchaseNotFound
	}
	r.l.Writes++
	delete(r.l.State.Purchases, id)
	return nil
}

type shoppingListRepo struct{ l *Ledger }

func (r shoppingListRepo) Create(_ context.Context, item *entity.ShoppingListItem) error {
	r.l.Writes++
	cp := *item
	r.l.State.List[item.ID] = &cp
	return nil
}

func (r shoppingListRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ShoppingListItem, error) {
	item, ok := r.l.State.List[id]
	if !ok {
		return nil, domainerror.ErrShoppingListItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (r shoppingListRepo) List(_ context.Context) ([]*entity.ShoppingListItemWithProduct, error) {
	out := make([]*entity.ShoppingListItemWithProduct, 0, len(r.l.State.List))
	for _, item := range r.l.State.List {
		cp := *item
		var product *entity.Product
		if p, ok := r.l.State.Products[item.ProductID]; ok {
			product = cloneProduct(p)
		}
		out = append(out, &entity.ShoppingListItemWithProduct{Item: &cp, Product: product})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.CreatedAt.Before(out[j].Item.CreatedAt) })
	return out, nil
}

func (r shoppingListRepo) Update(_ context.Context, item *entity.ShoppingListItem) error {
	if _, ok := r.l.State.List[item.ID]; !ok {
		return domainerror.ErrShoppingListItemNotFound
	}
	r.l.Writes++
	cp := *item
	r.l.State.List[item.ID] = &cp
	return nil
}

func (r shoppingListRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.l.State.List[id]; !ok {
		return domainerror.ErrShoppingListItemNotFound
	}
	r.l.Writes++
	delete(r.l.State.List, id)
	return nil
}

func (r shoppingListRepo) DeleteByProductIDs(_ context.Context, productIDs []uuid.UUID) (int64, error) {
	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	var n int64
	for id, item := range r.l.State.List {
		if wanted[item.ProductID] {
			delete(r.l.State.List, id)
			n++
		}
	}
	if n > 0 {
		r.l.Writes++
	}
	return n, nil
}
