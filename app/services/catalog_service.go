package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/pkg/storage"
	"gorm.io/gorm"
)

// CatalogService manages the food-item menu.
type CatalogService struct {
	food *repositories.FoodRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{food: repositories.NewFoodRepository()}
}

// List returns the full catalog.
func (s *CatalogService) List() ([]models.FoodItem, error) {
	return s.food.All()
}

// Get returns one food item or ErrNotFound.
func (s *CatalogService) Get(id uint) (models.FoodItem, error) {
	item, err := s.food.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, ErrNotFound
		}
		return models.FoodItem{}, err
	}
	return item, nil
}

// FoodItemInput carries create/update payloads for menu entries.
type FoodItemInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"nullable,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url" validate:"nullable,url"`
	Category    string  `json:"category" validate:"nullable,max=100"`
	Available   *bool   `json:"available"`
}

// Create adds a new menu entry.
func (s *CatalogService) Create(input FoodItemInput) (models.FoodItem, error) {
	item := models.FoodItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		Available:   true,
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if err := s.food.Create(&item); err != nil {
		return models.FoodItem{}, err
	}
	return item, nil
}

// Update edits an existing menu entry. Rating fields are untouched; they
// only move through the review recompute path.
func (s *CatalogService) Update(id uint, input FoodItemInput) (models.FoodItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return models.FoodItem{}, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Description = input.Description
	item.Price = input.Price
	if input.ImageURL != "" {
		item.ImageURL = input.ImageURL
	}
	item.Category = input.Category
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.food.Update(&item); err != nil {
		return models.FoodItem{}, err
	}
	return item, nil
}

// Delete removes a menu entry from the catalog. Order snapshots carry
// their own copy of the item, so existing orders are unaffected.
func (s *CatalogService) Delete(id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.food.Delete(&item)
}

// UploadImage stores an uploaded image on the configured disk and writes
// its public URL to the item.
func (s *CatalogService) UploadImage(id uint, filename string, file io.Reader) (models.FoodItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return models.FoodItem{}, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := fmt.Sprintf("food/%d%s", item.ID, ext)

	if err := storage.PutStream(path, file); err != nil {
		return models.FoodItem{}, err
	}

	item.ImageURL = storage.URL(path)
	if err := s.food.Update(&item); err != nil {
		return models.FoodItem{}, err
	}
	return item, nil
}
