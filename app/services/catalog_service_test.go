package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
)

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	cat, err := svc.Create(forms.CategoryForm{Name: "Books"})
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)

	cat, err = svc.Update(cat.ID, forms.CategoryForm{Name: "Paper Books"})
	require.NoError(t, err)
	assert.Equal(t, "Paper Books", cat.Name)

	all, err := svc.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(cat.ID))
	_, err = svc.GetByID(cat.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteCategoryKeepsProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	products := NewProductService(db)

	p := seedProduct(t, db, "keyboard", ptr(89))
	cat := seedCategory(t, db, "Electronics", p)

	require.NoError(t, svc.Delete(cat.ID))

	// The product survives with the join row gone.
	fresh, err := products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Categories)

	var joins int64
	require.NoError(t, db.Table("product_categories").Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestRemoveProductFromCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	keep := seedProduct(t, db, "keyboard", ptr(89))
	detach := seedProduct(t, db, "headphones", ptr(199))
	cat := seedCategory(t, db, "Electronics", keep, detach)

	require.NoError(t, svc.DeleteFromCategory(cat.ID, detach.ID))

	fresh, err := svc.GetByIDWithProducts(cat.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Products, 1)
	assert.Equal(t, keep.ID, fresh.Products[0].ID)

	// The detached product itself still exists.
	var p models.Product
	assert.NoError(t, db.First(&p, detach.ID).Error)
}

func TestCategoryMayBeEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	cat, err := svc.Create(forms.CategoryForm{Name: "Coming Soon"})
	require.NoError(t, err)

	fresh, err := svc.GetByIDWithProducts(cat.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Products)
}

func TestProductCreateWithCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	books := seedCategory(t, db, "Books")
	gifts := seedCategory(t, db, "Gifts")

	p, err := svc.Create(forms.ProductForm{
		Name:        "The Go Programming Language",
		ImageURL:    "/storage/products/go-book.jpg",
		Description: "The definitive guide to writing idiomatic Go.",
		Price:       ptr(35),
		CategoryIDs: []uint{books.ID, gifts.ID},
	})
	require.NoError(t, err)

	fresh, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Categories, 2)
	require.NotNil(t, fresh.Price)
	assert.InDelta(t, 35.0, *fresh.Price, 0.001)
}

func TestProductWithoutPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	p, err := svc.Create(forms.ProductForm{
		Name:        "Limited Edition Print",
		ImageURL:    "/storage/products/print.jpg",
		Description: "Numbered art print, pricing to be announced.",
	})
	require.NoError(t, err)

	fresh, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.Price)
}

func TestProductUpdateReplacesCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	books := seedCategory(t, db, "Books")
	gifts := seedCategory(t, db, "Gifts")
	p := seedProduct(t, db, "go-book", ptr(35))
	require.NoError(t, db.Model(&p).Association("Categories").Append(&books))

	_, err := svc.Update(p.ID, forms.ProductForm{
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Price:       p.Price,
		CategoryIDs: []uint{gifts.ID},
	})
	require.NoError(t, err)

	fresh, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Categories, 1)
	assert.Equal(t, gifts.ID, fresh.Categories[0].ID)
}

func TestDeleteProductRemovesCartLines(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db)
	carts := NewCartService(db)

	p := seedProduct(t, db, "keyboard", ptr(89))
	cat := seedCategory(t, db, "Electronics", p)

	require.NoError(t, carts.AddToCart(1, p.ID, 2))
	require.NoError(t, products.Delete(p.ID))

	view, err := carts.GetCart(1)
	require.NoError(t, err)
	assert.True(t, view.Empty())

	// The category survives.
	var fresh models.Category
	assert.NoError(t, db.First(&fresh, cat.ID).Error)
}

func TestGetByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	in := seedProduct(t, db, "keyboard", ptr(89))
	seedProduct(t, db, "headphones", ptr(199))
	cat := seedCategory(t, db, "Electronics", in)

	listed, err := svc.GetByCategory(cat.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, in.ID, listed[0].ID)
}
