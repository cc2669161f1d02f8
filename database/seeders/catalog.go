package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/identity"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("catalog", SeedCatalog)
}

// SeedAdminUser creates the default admin account. Safe to re-run: the
// insert skips when the email is already present.
func SeedAdminUser(db *gorm.DB) error {
	hash, err := identity.HashPassword("ChangeMe123!")
	if err != nil {
		return err
	}

	admin := models.User{
		UserName:       "admin",
		Email:          "admin@shopgo.app",
		FullName:       "Shop Administrator",
		PasswordHash:   hash,
		EmailConfirmed: true,
		Role:           "admin",
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error
}

// SeedCatalog inserts a small demo catalog with categories attached to
// products. Re-running skips rows that already exist by name.
func SeedCatalog(db *gorm.DB) error {
	price := func(v float64) *float64 { return &v }

	categories := map[string]*models.Category{}
	for _, name := range []string{"Books", "Electronics", "Clothing"} {
		cat := models.Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
		categories[name] = &cat
	}

	products := []struct {
		product    models.Product
		categories []string
	}{
		{models.Product{Name: "The Go Programming Language", ImageURL: "/storage/seed/go-book.jpg",
			Description: "The definitive guide to writing idiomatic Go, from basics to concurrency.", Price: price(35)},
			[]string{"Books"}},
		{models.Product{Name: "Mechanical Keyboard", ImageURL: "/storage/seed/keyboard.jpg",
			Description: "Tenkeyless mechanical keyboard with hot-swappable switches.", Price: price(89)},
			[]string{"Electronics"}},
		{models.Product{Name: "Noise Cancelling Headphones", ImageURL: "/storage/seed/headphones.jpg",
			Description: "Over-ear wireless headphones with active noise cancellation.", Price: price(199)},
			[]string{"Electronics"}},
		{models.Product{Name: "Gopher T-Shirt", ImageURL: "/storage/seed/tshirt.jpg",
			Description: "Soft cotton t-shirt featuring the Go gopher mascot.", Price: price(18)},
			[]string{"Clothing"}},
		// Pending entry: listed without a price yet.
		{models.Product{Name: "Limited Edition Print", ImageURL: "/storage/seed/print.jpg",
			Description: "Numbered art print, pricing to be announced."},
			[]string{"Clothing", "Books"}},
	}

	for _, entry := range products {
		p := entry.product
		if err := db.Where("name = ?", p.Name).FirstOrCreate(&p).Error; err != nil {
			return err
		}

		cats := make([]models.Category, 0, len(entry.categories))
		for _, name := range entry.categories {
			cats = append(cats, *categories[name])
		}
		if err := db.Model(&p).Association("Categories").Replace(cats); err != nil {
			return err
		}
	}

	return nil
}
