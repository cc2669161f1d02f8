package models

import "time"

// Category groups products. A category may exist with zero products.
// The product_categories join table carries cascade referential actions on
// both foreign keys, so deleting a category (or a product) detaches join
// rows without touching the other entity. Rows are hard-deleted: a
// soft-deleted category would keep its join rows alive.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Products  []Product `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a catalogue entry. Price is nullable: a product may be listed
// before its price is entered, and such items never contribute to cart totals.
type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	ImageURL    string     `gorm:"size:512"  json:"image_url"`
	Description string     `gorm:"type:text" json:"description"`
	Price       *float64   `json:"price,omitempty"`
	Categories  []Category `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
