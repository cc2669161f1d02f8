package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/orm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	*Repository[models.Product]
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{Repository: NewRepository[models.Product](db), db: db}
}

// FindWithCategories loads a product with its categories eagerly preloaded.
func (r *ProductRepository) FindWithCategories(id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := orm.With(r.db).Preload("Categories").Where("id = ?", id).First(&p)
	return p, err
}

// AllByCategory lists the products attached to one category.
func (r *ProductRepository) AllByCategory(categoryID uint) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []models.Product
	err := r.db.
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id = ?", categoryID).
		Order("products.id").
		Find(&out).Error
	return out, err
}

// SetCategories replaces a product's category associations with the given
// set of category ids.
func (r *ProductRepository) SetCategories(p *models.Product, categoryIDs []uint) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	cats := make([]models.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, models.Category{ID: id})
	}
	return r.db.Model(p).Association("Categories").Replace(cats)
}

// Delete removes a product along with its join rows and any cart lines
// referencing it. Done explicitly so behaviour does not depend on
// driver-level foreign key enforcement.
func (r *ProductRepository) Delete(p *models.Product) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	if err := r.db.Model(p).Association("Categories").Clear(); err != nil {
		return err
	}
	if err := r.db.Where("product_id = ?", p.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return orm.With(r.db).Delete(p)
}
