package services

import (
	"context"

	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"

	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List retrieves all categories sorted by name
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, name, description string) (*models.Category, error) {
	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id, name, description string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		category.Name = name
	}
	category.Description = description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete deletes a category
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
