package migrations

import (
	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260101000002_create_cart_tables", &CreateCartTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: categories, products, join table --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_categories", "products", "categories")
}

// -------- 0003: carts, cart items --------

type CreateCartTables struct{}

func (m *CreateCartTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}
