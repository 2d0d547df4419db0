package domain

import "time"

const (
	CategoryProduce     = "produce"
	CategoryDairy       = "dairy"
	CategoryMeat        = "meat"
	CategorySeafood     = "seafood"
	CategoryBakery      = "bakery"
	CategoryFrozen      = "frozen"
	CategoryPantry      = "pantry"
	CategoryBeverages   = "beverages"
	CategorySnacks      = "snacks"
	CategorySupplements = "supplements"
	CategoryOther       = "other"
)

// ShoppingCategories lists categories in display order.
var ShoppingCategories = []string{
	CategoryProduce, CategoryDairy, CategoryMeat, CategorySeafood, CategoryBakery, CategoryFrozen,
	CategoryPantry, CategoryBeverages, CategorySnacks, CategorySupplements, CategoryOther,
}

type ShoppingItem struct {
	ItemID      string    `json:"id" dynamodbav:"item_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Quantity    *string   `json:"quantity" dynamodbav:"quantity"`
	Category    string    `json:"category" dynamodbav:"category"`
	Notes       *string   `json:"notes" dynamodbav:"notes"`
	IsPurchased bool      `json:"is_purchased" dynamodbav:"is_purchased"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateShoppingItemRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Quantity *string `json:"quantity" validate:"omitempty,max=100"`
	Category string  `json:"category" validate:"omitempty,oneof=produce dairy meat seafood bakery frozen pantry beverages snacks supplements other"`
	Notes    *string `json:"notes"`
}

type UpdateShoppingItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Quantity    *string `json:"quantity" validate:"omitempty,max=100"`
	Category    *string `json:"category" validate:"omitempty,oneof=produce dairy meat seafood bakery frozen pantry beverages snacks supplements other"`
	Notes       *string `json:"notes"`
	IsPurchased *bool   `json:"is_purchased"`
}

// ShoppingFilter narrows a shopping listing; nil fields are not applied.
type ShoppingFilter struct {
	Category  *string
	Purchased *bool
}

type ShoppingListSummary struct {
	TotalItems      int            `json:"total_items"`
	PurchasedItems  int            `json:"purchased_items"`
	PendingItems    int            `json:"pending_items"`
	ItemsByCategory map[string]int `json:"items_by_category"`
}
