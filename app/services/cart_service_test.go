package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
)

func TestInitializeCartIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)

	require.NoError(t, svc.InitializeCart(7))
	require.NoError(t, svc.InitializeCart(7))

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	require.NoError(t, svc.AddToCart(1, p.ID, 2))
	require.NoError(t, svc.AddToCart(1, p.ID, 3))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	assert.ErrorIs(t, svc.AddToCart(1, p.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddToCart(1, p.ID, -4), ErrInvalidQuantity)

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)

	assert.ErrorIs(t, svc.AddToCart(1, 999, 1), repositories.ErrNotFound)
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	require.NoError(t, svc.AddToCart(1, p.ID, 2))
	require.NoError(t, svc.UpdateQuantity(1, p.ID, 7))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 7, view.Items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	require.NoError(t, svc.AddToCart(1, p.ID, 2))
	require.NoError(t, svc.UpdateQuantity(1, p.ID, 0))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestRemoveFromCartAbsentIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	// No cart at all yet.
	require.NoError(t, svc.RemoveFromCart(1, p.ID))

	// Cart exists but the product is not in it.
	require.NoError(t, svc.InitializeCart(1))
	require.NoError(t, svc.RemoveFromCart(1, p.ID))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestGetCartTotalSkipsUnpricedItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	priced := seedProduct(t, db, "headphones", ptr(199))
	pending := seedProduct(t, db, "print", nil)

	require.NoError(t, svc.AddToCart(1, priced.ID, 2))
	require.NoError(t, svc.AddToCart(1, pending.ID, 1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)

	// Both lines render, in insertion order.
	require.Len(t, view.Items, 2)
	assert.Equal(t, priced.ID, view.Items[0].ProductID)
	assert.Equal(t, pending.ID, view.Items[1].ProductID)

	// Only the priced line counts toward the total.
	assert.InDelta(t, 398.0, view.Total, 0.001)
}

func TestConcurrentAddsDoNotDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AddToCart(1, p.ID, 1))
		}()
	}
	wg.Wait()

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, workers, view.Items[0].Quantity)
}

func TestUsersSharingLockShardStayIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	// Both user ids hash to the same lock shard.
	a, b := uint(3), uint(3+cartLockShards)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 4; i++ {
			assert.NoError(t, svc.AddToCart(a, p.ID, 1))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 4; i++ {
			assert.NoError(t, svc.AddToCart(b, p.ID, 2))
		}
	}()
	wg.Wait()

	first, err := svc.GetCart(a)
	require.NoError(t, err)
	second, err := svc.GetCart(b)
	require.NoError(t, err)

	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 4, first.Items[0].Quantity)
	assert.Equal(t, 8, second.Items[0].Quantity)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "keyboard", ptr(89))

	require.NoError(t, svc.AddToCart(1, p.ID, 1))
	require.NoError(t, svc.AddToCart(2, p.ID, 5))

	first, err := svc.GetCart(1)
	require.NoError(t, err)
	second, err := svc.GetCart(2)
	require.NoError(t, err)

	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 1, first.Items[0].Quantity)
	assert.Equal(t, 5, second.Items[0].Quantity)
}
