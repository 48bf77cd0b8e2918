package model

// All returns every model managed by auto-migration.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&CategoryModel{},
		&ProductModel{},
		&ShoppingListItemModel{},
		&DraftPurchaseModel{},
		&DraftItemModel{},
		&PurchaseModel{},
		&PurchaseItemModel{},
		&BudgetModel{},
		&BudgetEntryModel{},
		&NotificationModel{},
	}
}
