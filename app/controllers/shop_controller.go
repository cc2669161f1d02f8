package controllers

import (
	"errors"
	"net/http"

	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/app/services"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// ShopController serves the public storefront pages.
type ShopController struct {
	products   *services.ProductService
	categories *services.CategoryService
}

func NewShopController(products *services.ProductService, categories *services.CategoryService) *ShopController {
	return &ShopController{products: products, categories: categories}
}

// Home renders the landing page: category navigation plus the full catalog.
func (c *ShopController) Home(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.GetAll()
	if err != nil {
		c.fail(w, r, "shop: home categories", err)
		return
	}
	prods, err := c.products.GetAll()
	if err != nil {
		c.fail(w, r, "shop: home products", err)
		return
	}

	view.Render(w, r, "home", view.Data{"Categories": cats, "Products": prods})
}

func (c *ShopController) Products(w http.ResponseWriter, r *http.Request) {
	prods, err := c.products.GetAll()
	if err != nil {
		c.fail(w, r, "shop: products", err)
		return
	}

	view.Render(w, r, "products", view.Data{"Products": prods})
}

func (c *ShopController) Product(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	p, err := c.products.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		c.fail(w, r, "shop: product", err)
		return
	}

	view.Render(w, r, "product", view.Data{"Product": p})
}

// Category renders one category with its products.
func (c *ShopController) Category(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	cat, err := c.categories.GetByIDWithProducts(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		c.fail(w, r, "shop: category", err)
		return
	}

	view.Render(w, r, "category", view.Data{"Category": cat})
}

func (c *ShopController) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.WithCtx(r.Context()).Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
