package controllers

import (
	"errors"
	"net/http"

	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/app/services"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/middleware"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// CartController handles the signed-in user's cart page and mutations.
// All routes sit behind the auth guard, so the user id is always present.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	cart, err := c.carts.GetCart(uid)
	if err != nil {
		logger.WithCtx(r.Context()).Error("cart: show", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.Render(w, r, "cart", view.Data{"Cart": cart})
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	productID, ok := formUint(r, "product_id")
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	qty := formInt(r, "quantity", 1)

	err := c.carts.AddToCart(uid, productID, qty)
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		view.Flash(w, r, view.Message{Title: "Oops", Message: "Quantity must be at least 1.", CSS: "warning"})
	case errors.Is(err, repositories.ErrNotFound):
		view.Flash(w, r, view.Message{Title: "Oops", Message: "That product is no longer available.", CSS: "danger"})
	case err != nil:
		logger.WithCtx(r.Context()).Error("cart: add", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	default:
		view.Flash(w, r, view.Message{Title: "Added", Message: "Item added to your cart.", CSS: "success"})
	}

	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	productID, ok := formUint(r, "product_id")
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	qty := formInt(r, "quantity", 0)

	if err := c.carts.UpdateQuantity(uid, productID, qty); err != nil {
		logger.WithCtx(r.Context()).Error("cart: update", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	productID, ok := formUint(r, "product_id")
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := c.carts.RemoveFromCart(uid, productID); err != nil {
		logger.WithCtx(r.Context()).Error("cart: remove", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.Flash(w, r, view.Message{Title: "Removed", Message: "Item removed from your cart.", CSS: "success"})
	http.Redirect(w, r, "/cart", http.StatusFound)
}
