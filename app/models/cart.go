package models

import "time"

// Cart is owned by exactly one user. The unique index on UserID makes
// InitializeCart idempotent at the persistence layer: a second insert for
// the same user resolves as a no-op instead of creating a duplicate.
// A cart is never deleted once created.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one (product, quantity) line in a cart. The composite unique
// index enforces at most one line per (cart, product) pair, so concurrent
// add-to-cart requests from two browser tabs resolve as an upsert rather
// than a duplicate row. Lines are hard-deleted on removal.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
