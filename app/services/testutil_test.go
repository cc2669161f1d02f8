package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopgo-app/shopgo/app/models"
)

// newTestDB opens a per-test in-memory sqlite database. The shared-cache
// DSN keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price *float64) models.Product {
	t.Helper()

	p := models.Product{
		Name:        name,
		ImageURL:    "/storage/test/" + name + ".jpg",
		Description: "A test product used across the service suites.",
		Price:       price,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedCategory(t *testing.T, db *gorm.DB, name string, products ...models.Product) models.Category {
	t.Helper()

	cat := models.Category{Name: name, Products: products}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func ptr(v float64) *float64 { return &v }
