package api

import (
	"context"
	"net/url"

	"github.com/Veraticus/finflow/internal/model"
)

// CategoriesService manages transaction categories.
type CategoriesService struct {
	client *Client
}

// List returns every category.
func (s *CategoriesService) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.client.Get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Create adds a category.
func (s *CategoriesService) Create(ctx context.Context, payload model.CategoryPayload) (*model.Category, error) {
	var category model.Category
	if err := s.client.Post(ctx, "/categories", payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update replaces the fields of a category.
func (s *CategoriesService) Update(ctx context.Context, id model.ID, payload model.CategoryPayload) (*model.Category, error) {
	var category model.Category
	if err := s.client.Put(ctx, "/categories/"+url.PathEscape(id.String()), payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category.
func (s *CategoriesService) Delete(ctx context.Context, id model.ID) error {
	return s.client.Delete(ctx, "/categories/"+url.PathEscape(id.String()))
}
