package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/orm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	*Repository[models.Category]
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{Repository: NewRepository[models.Category](db), db: db}
}

// FindWithProducts loads a category with its products eagerly preloaded.
func (r *CategoryRepository) FindWithProducts(id uint) (models.Category, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var cat models.Category
	err := orm.With(r.db).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") }).
		Where("id = ?", id).
		First(&cat)
	return cat, err
}

// Delete removes a category. Join rows are cleared explicitly first so the
// detach does not depend on the driver enforcing foreign keys (sqlite ships
// with them off).
func (r *CategoryRepository) Delete(cat *models.Category) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	if err := r.db.Model(cat).Association("Products").Clear(); err != nil {
		return err
	}
	return orm.With(r.db).Delete(cat)
}

// RemoveProduct deletes only the join row between a category and a product.
// Both entities survive.
func (r *CategoryRepository) RemoveProduct(categoryID, productID uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	cat := models.Category{ID: categoryID}
	return r.db.Model(&cat).Association("Products").Delete(&models.Product{ID: productID})
}
