package services

import (
	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
)

// ProductService fronts product CRUD for the storefront and admin pages.
type ProductService struct {
	repo *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{repo: repositories.NewProductRepository(db)}
}

func (s *ProductService) GetAll() ([]models.Product, error) {
	return s.repo.All()
}

// GetByID returns a product with its categories for the detail page.
func (s *ProductService) GetByID(id uint) (models.Product, error) {
	return s.repo.FindWithCategories(id)
}

func (s *ProductService) GetByCategory(categoryID uint) ([]models.Product, error) {
	return s.repo.AllByCategory(categoryID)
}

func (s *ProductService) Create(form forms.ProductForm) (models.Product, error) {
	p := models.Product{
		Name:        form.Name,
		ImageURL:    form.ImageURL,
		Description: form.Description,
		Price:       form.Price,
	}
	if err := s.repo.Create(&p); err != nil {
		return models.Product{}, err
	}
	if err := s.repo.SetCategories(&p, form.CategoryIDs); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Update(id uint, form forms.ProductForm) (models.Product, error) {
	p, err := s.repo.Find(id)
	if err != nil {
		return models.Product{}, err
	}

	p.Name = form.Name
	p.ImageURL = form.ImageURL
	p.Description = form.Description
	p.Price = form.Price
	if err := s.repo.Update(&p); err != nil {
		return models.Product{}, err
	}
	if err := s.repo.SetCategories(&p, form.CategoryIDs); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Delete removes a product along with its category join rows and any cart
// lines that reference it.
func (s *ProductService) Delete(id uint) error {
	p, err := s.repo.Find(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(&p)
}
