package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/app/services"
	"github.com/shopgo-app/shopgo/pkg/bind"
	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/storage"
	"github.com/shopgo-app/shopgo/pkg/view"
)

// AdminController handles the category and product management pages.
// All routes sit behind the admin role guard.
type AdminController struct {
	categories *services.CategoryService
	products   *services.ProductService
}

func NewAdminController(categories *services.CategoryService, products *services.ProductService) *AdminController {
	return &AdminController{categories: categories, products: products}
}

// ------------------- Categories -------------------

func (c *AdminController) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.GetAll()
	if err != nil {
		c.fail(w, r, "admin: categories", err)
		return
	}

	view.Render(w, r, "admin_categories", view.Data{"Categories": cats})
}

// CategoryDetail shows one category with its products, the page the
// remove-product action posts back to.
func (c *AdminController) CategoryDetail(w http.ResponseWriter, r *http.Request) {
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
		c.fail(w, r, "admin: category detail", err)
		return
	}

	view.Render(w, r, "admin_category_detail", view.Data{"Category": cat})
}

func (c *AdminController) NewCategory(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "admin_category_form", view.Data{"Form": forms.CategoryForm{}})
}

func (c *AdminController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var form forms.CategoryForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "admin_category_form", view.Data{"Form": form, "Errors": errs})
		return
	}

	if _, err := c.categories.Create(form); err != nil {
		c.fail(w, r, "admin: create category", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Saved", Message: "Category created.", CSS: "success"})
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
}

func (c *AdminController) EditCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	cat, err := c.categories.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		c.fail(w, r, "admin: edit category", err)
		return
	}

	view.Render(w, r, "admin_category_form", view.Data{
		"Form":     forms.CategoryForm{Name: cat.Name},
		"Category": cat,
	})
}

func (c *AdminController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var form forms.CategoryForm
	errs, err := bind.Form(r, &form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		view.Render(w, r, "admin_category_form", view.Data{"Form": form, "Errors": errs})
		return
	}

	if _, err := c.categories.Update(id, form); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		c.fail(w, r, "admin: update category", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Saved", Message: "Category updated.", CSS: "success"})
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
}

func (c *AdminController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := c.categories.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		c.fail(w, r, "admin: delete category", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Deleted", Message: "Category deleted. Its products are still in the catalog.", CSS: "success"})
	http.Redirect(w, r, "/admin/categories", http.StatusFound)
}

// RemoveProduct detaches a product from a category without deleting either.
func (c *AdminController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	productID, ok := formUint(r, "product_id")
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := c.categories.DeleteFromCategory(id, productID); err != nil {
		c.fail(w, r, "admin: remove product from category", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Removed", Message: "Product removed from the category.", CSS: "success"})
	http.Redirect(w, r, fmt.Sprintf("/admin/categories/%d", id), http.StatusFound)
}

// ------------------- Products -------------------

func (c *AdminController) Products(w http.ResponseWriter, r *http.Request) {
	prods, err := c.products.GetAll()
	if err != nil {
		c.fail(w, r, "admin: products", err)
		return
	}

	view.Render(w, r, "admin_products", view.Data{"Products": prods})
}

func (c *AdminController) NewProduct(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.GetAll()
	if err != nil {
		c.fail(w, r, "admin: new product", err)
		return
	}

	view.Render(w, r, "admin_product_form", view.Data{
		"Form":       forms.ProductForm{},
		"Categories": cats,
	})
}

func (c *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, errs, err := c.bindProduct(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		c.renderProductForm(w, r, form, errs, nil)
		return
	}

	if _, err := c.products.Create(form); err != nil {
		c.fail(w, r, "admin: create product", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Saved", Message: "Product created.", CSS: "success"})
	http.Redirect(w, r, "/admin/products", http.StatusFound)
}

func (c *AdminController) EditProduct(w http.ResponseWriter, r *http.Request) {
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
		c.fail(w, r, "admin: edit product", err)
		return
	}

	form := forms.ProductForm{
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Price:       p.Price,
	}
	for _, cat := range p.Categories {
		form.CategoryIDs = append(form.CategoryIDs, cat.ID)
	}

	c.renderProductForm(w, r, form, nil, &p)
}

func (c *AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	form, errs, err := c.bindProduct(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		c.renderProductForm(w, r, form, errs, nil)
		return
	}

	if _, err := c.products.Update(id, form); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		c.fail(w, r, "admin: update product", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Saved", Message: "Product updated.", CSS: "success"})
	http.Redirect(w, r, "/admin/products", http.StatusFound)
}

func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := c.products.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		c.fail(w, r, "admin: delete product", err)
		return
	}

	view.Flash(w, r, view.Message{Title: "Deleted", Message: "Product deleted.", CSS: "success"})
	http.Redirect(w, r, "/admin/products", http.StatusFound)
}

// bindProduct stores an uploaded image on the storage disk first, so the
// resulting URL takes part in validation like any other field.
func (c *AdminController) bindProduct(r *http.Request) (forms.ProductForm, map[string]string, error) {
	var form forms.ProductForm

	if err := r.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return form, nil, fmt.Errorf("invalid form body: %w", err)
	}

	if url, err := c.storeImage(r); err != nil {
		return form, nil, err
	} else if url != "" {
		r.Form.Set("image_url", url)
	}

	errs, err := bind.Form(r, &form)
	return form, errs, err
}

// storeImage writes the "image" upload to the configured storage disk and
// returns its public URL. No upload returns "".
func (c *AdminController) storeImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := fmt.Sprintf("products/%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename))
	if err := storage.PutStream(name, file); err != nil {
		return "", fmt.Errorf("store product image: %w", err)
	}
	return storage.URL(name), nil
}

func (c *AdminController) renderProductForm(w http.ResponseWriter, r *http.Request, form forms.ProductForm, errs map[string]string, product interface{}) {
	cats, err := c.categories.GetAll()
	if err != nil {
		c.fail(w, r, "admin: product form categories", err)
		return
	}

	data := view.Data{"Form": form, "Categories": cats}
	if errs != nil {
		data["Errors"] = errs
	}
	if product != nil {
		data["Product"] = product
	}
	view.Render(w, r, "admin_product_form", data)
}

func (c *AdminController) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.WithCtx(r.Context()).Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
