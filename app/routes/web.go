package routes

import (
	"time"

	"github.com/shopgo-app/shopgo/app/controllers"
	"github.com/shopgo-app/shopgo/app/services"
	"github.com/shopgo-app/shopgo/pkg/database"
	"github.com/shopgo-app/shopgo/pkg/middleware"
	"github.com/shopgo-app/shopgo/pkg/router"
)

// RegisterWeb wires every page route. Storefront pages are public, the
// cart requires a signed-in user, and /admin requires the admin role.
func RegisterWeb(r *router.Router) {
	db := database.DB

	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db)
	cartService := services.NewCartService(db)
	accountService := services.NewAccountService(db, cartService, r)

	shop := controllers.NewShopController(productService, categoryService)
	cart := controllers.NewCartController(cartService)
	account := controllers.NewAccountController(accountService)
	admin := controllers.NewAdminController(categoryService, productService)

	// Storefront
	r.Get("/", "shop.home", shop.Home)
	r.Get("/products", "shop.products", shop.Products)
	r.Get("/products/{id}", "shop.product", shop.Product)
	r.Get("/categories/{id}", "shop.category", shop.Category)

	// Account. Credential POSTs are rate limited per client IP.
	throttle := middleware.RateLimit(15, time.Minute)
	acc := r.Group("/account")
	acc.Get("/register", "account.register", account.ShowRegister)
	acc.Post("/register", "", account.Register, throttle)
	acc.Get("/login", "account.login", account.ShowLogin)
	acc.Post("/login", "", account.Login, throttle)
	acc.Get("/logout", "account.logout", account.Logout)
	acc.Get("/confirm-email", "account.confirm_email", account.ConfirmEmail)
	acc.Get("/forgot-password", "account.forgot_password", account.ShowForgotPassword)
	acc.Post("/forgot-password", "", account.ForgotPassword, throttle)
	acc.Get("/reset-password", "account.reset_password", account.ShowResetPassword)
	acc.Post("/reset-password", "", account.ResetPassword)
	acc.Get("/access-denied", "account.access_denied", account.AccessDenied)

	// Cart (signed-in users)
	crt := r.Group("/cart", middleware.RequireUser)
	crt.Get("", "cart.show", cart.Show)
	crt.Post("/add", "cart.add", cart.Add)
	crt.Post("/update", "cart.update", cart.Update)
	crt.Post("/remove", "cart.remove", cart.Remove)

	// Admin (role guard)
	adm := r.Group("/admin", middleware.RequireAdmin)
	adm.Get("/categories", "admin.categories", admin.Categories)
	adm.Get("/categories/new", "admin.categories.new", admin.NewCategory)
	adm.Post("/categories", "", admin.CreateCategory)
	adm.Get("/categories/{id}", "admin.categories.show", admin.CategoryDetail)
	adm.Get("/categories/{id}/edit", "admin.categories.edit", admin.EditCategory)
	adm.Post("/categories/{id}", "", admin.UpdateCategory)
	adm.Post("/categories/{id}/delete", "admin.categories.delete", admin.DeleteCategory)
	adm.Post("/categories/{id}/remove-product", "admin.categories.remove_product", admin.RemoveProduct)
	adm.Get("/products", "admin.products", admin.Products)
	adm.Get("/products/new", "admin.products.new", admin.NewProduct)
	adm.Post("/products", "", admin.CreateProduct)
	adm.Get("/products/{id}/edit", "admin.products.edit", admin.EditProduct)
	adm.Post("/products/{id}", "", admin.UpdateProduct)
	adm.Post("/products/{id}/delete", "admin.products.delete", admin.DeleteProduct)
}
