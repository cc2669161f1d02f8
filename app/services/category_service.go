// Package services holds the business layer. Services own the error
// contracts controllers rely on; persistence details stay behind the
// repositories.
package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/forms"
	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/app/repositories"
	"github.com/shopgo-app/shopgo/pkg/cache"
)

const categoriesCacheKey = "shopgo:categories:all"

// CategoryService fronts category CRUD for both the storefront navigation
// and the admin pages.
type CategoryService struct {
	repo *repositories.CategoryRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{repo: repositories.NewCategoryRepository(db)}
}

// GetAll lists every category, served from the cache when warm. The list
// backs the storefront navigation so it is read on nearly every page.
func (s *CategoryService) GetAll() ([]models.Category, error) {
	var cats []models.Category
	err := s.repo.Query().
		Model(&models.Category{}).
		Order("id").
		Cache(categoriesCacheKey, 10*time.Minute, &cats)
	return cats, err
}

func (s *CategoryService) GetByID(id uint) (models.Category, error) {
	return s.repo.Find(id)
}

// GetByIDWithProducts returns a category and its products for the
// category detail page.
func (s *CategoryService) GetByIDWithProducts(id uint) (models.Category, error) {
	return s.repo.FindWithProducts(id)
}

func (s *CategoryService) Create(form forms.CategoryForm) (models.Category, error) {
	cat := models.Category{Name: form.Name}
	if err := s.repo.Create(&cat); err != nil {
		return models.Category{}, err
	}
	s.invalidate()
	return cat, nil
}

func (s *CategoryService) Update(id uint, form forms.CategoryForm) (models.Category, error) {
	cat, err := s.repo.Find(id)
	if err != nil {
		return models.Category{}, err
	}

	cat.Name = form.Name
	if err := s.repo.Update(&cat); err != nil {
		return models.Category{}, err
	}
	s.invalidate()
	return cat, nil
}

// Delete removes a category; its products survive with the join rows
// detached.
func (s *CategoryService) Delete(id uint) error {
	cat, err := s.repo.Find(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(&cat); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// DeleteFromCategory detaches one product from a category. Both entities
// survive.
func (s *CategoryService) DeleteFromCategory(categoryID, productID uint) error {
	return s.repo.RemoveProduct(categoryID, productID)
}

func (s *CategoryService) invalidate() {
	_ = cache.Del(categoriesCacheKey)
}
