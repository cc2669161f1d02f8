package services

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/pkg/metrics"
)

// ErrInvalidQuantity reports an add-to-cart with a zero or negative quantity.
var ErrInvalidQuantity = errors.New("cart: quantity must be positive")

// CartView is what the cart page renders: the lines in insertion order and
// the computed total. Lines whose product has no price yet are shown but
// contribute nothing to the total.
type CartView struct {
	Items []models.CartItem
	Total float64
}

// Empty reports whether the cart has no lines.
func (v CartView) Empty() bool { return len(v.Items) == 0 }

// cartLockShards bounds the lock pool; writes for a given user always hash
// to the same shard, so two users sharing a shard contend but never corrupt.
const cartLockShards = 64

// CartService owns the one-cart-per-user invariant and all cart mutations.
// Writes for a given user are serialized through a sharded lock pool; the
// composite unique index on (cart_id, product_id) backstops writers on
// other processes.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository

	locks [cartLockShards]sync.Mutex
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

func (s *CartService) lockFor(userID uint) *sync.Mutex {
	return &s.locks[userID%cartLockShards]
}

// InitializeCart ensures the user has a cart. Idempotent: called at
// registration and again defensively before any mutation, it never creates
// a second cart for the same user.
func (s *CartService) InitializeCart(userID uint) error {
	if _, err := s.carts.FindOrCreateByUser(userID); err != nil {
		return fmt.Errorf("cart: initialize for user %d: %w", userID, err)
	}
	return nil
}

// AddToCart puts qty units of a product into the user's cart. An existing
// line for the product is incremented, otherwise a new line is inserted.
func (s *CartService) AddToCart(userID, productID uint, qty int) error {
	if qty <= 0 {
		metrics.RecordCartMutation("add", "rejected")
		return ErrInvalidQuantity
	}

	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.products.Find(productID); err != nil {
		metrics.RecordCartMutation("add", "rejected")
		return err
	}

	cart, err := s.carts.FindOrCreateByUser(userID)
	if err != nil {
		metrics.RecordCartMutation("add", "error")
		return err
	}

	if err := s.carts.UpsertItem(cart.ID, productID, qty); err != nil {
		metrics.RecordCartMutation("add", "error")
		return err
	}

	metrics.RecordCartMutation("add", "ok")
	return nil
}

// RemoveFromCart deletes the product's line from the user's cart. Removing
// a product that is not in the cart is a no-op.
func (s *CartService) RemoveFromCart(userID, productID uint) error {
	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	cart, err := s.carts.FindByUser(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		metrics.RecordCartMutation("remove", "error")
		return err
	}

	if err := s.carts.DeleteItem(cart.ID, productID); err != nil {
		metrics.RecordCartMutation("remove", "error")
		return err
	}

	metrics.RecordCartMutation("remove", "ok")
	return nil
}

// UpdateQuantity sets a line's quantity directly. A quantity of zero or
// less removes the line.
func (s *CartService) UpdateQuantity(userID, productID uint, qty int) error {
	if qty <= 0 {
		return s.RemoveFromCart(userID, productID)
	}

	l := s.lockFor(userID)
	l.Lock()
	defer l.Unlock()

	cart, err := s.carts.FindByUser(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		metrics.RecordCartMutation("update", "error")
		return err
	}

	if err := s.carts.SetItemQuantity(cart.ID, productID, qty); err != nil {
		metrics.RecordCartMutation("update", "error")
		return err
	}

	metrics.RecordCartMutation("update", "ok")
	return nil
}

// GetCart returns the cart page view. A user without a cart row yet sees
// the same empty cart as one whose cart has no lines.
func (s *CartService) GetCart(userID uint) (CartView, error) {
	cart, err := s.carts.FindWithItems(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return CartView{}, nil
	}
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Items: cart.Items}
	for _, item := range cart.Items {
		if item.Product.Price != nil {
			view.Total += *item.Product.Price * float64(item.Quantity)
		}
	}
	return view, nil
}
