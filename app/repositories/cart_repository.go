package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/orm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser fetches a user's cart without its items.
func (r *CartRepository) FindByUser(userID uint) (models.Cart, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var cart models.Cart
	err := orm.With(r.db).Where("user_id = ?", userID).First(&cart)
	return cart, err
}

// FindOrCreateByUser returns the user's cart, creating it if missing. The
// insert goes through an on-conflict-do-nothing clause on the unique
// user_id index, so a racing duplicate insert degrades to a fetch instead
// of an error.
func (r *CartRepository) FindOrCreateByUser(userID uint) (models.Cart, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())

	cart := models.Cart{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return models.Cart{}, err
	}

	if cart.ID == 0 {
		// Conflict hit: the cart already existed.
		return r.FindByUser(userID)
	}
	return cart, nil
}

// FindWithItems loads a user's cart with its lines in insertion order and
// each line's product.
func (r *CartRepository) FindWithItems(userID uint) (models.Cart, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var cart models.Cart
	err := orm.With(r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart)
	return cart, err
}

// UpsertItem adds qty to an existing (cart, product) line, or inserts a new
// line when none exists. The composite unique index resolves the race
// between concurrent adds: the second insert lands as an increment.
func (r *CartRepository) UpsertItem(cartID, productID uint, qty int) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

// SetItemQuantity sets an existing line's quantity directly. A missing line
// is a no-op.
func (r *CartRepository) SetItemQuantity(cartID, productID uint, qty int) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	return r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", qty).Error
}

// DeleteItem removes a line. A missing line is a no-op.
func (r *CartRepository) DeleteItem(cartID, productID uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	return r.db.
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}
