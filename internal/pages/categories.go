package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/model"
)

// Categories is the container behind the category list.
type Categories struct {
	api        CategoriesAPI
	logger     *slog.Logger
	categories []model.Category
	gen        generation
}

// NewCategories creates an empty category container.
func NewCategories(api CategoriesAPI, logger *slog.Logger) *Categories {
	return &Categories{api: api, logger: common.Component(logger, "categories")}
}

// Load fetches and publishes the category list.
func (c *Categories) Load(ctx context.Context) ([]model.Category, error) {
	tag, err := c.gen.next()
	if err != nil {
		return nil, err
	}

	categories, err := c.api.List(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load categories: %w", err)
		c.gen.fail(tag, err)
		return nil, err
	}

	if err := c.gen.commit(tag, func() { c.categories = categories }); err != nil {
		c.logger.Debug("discarding stale category list", "generation", tag)
		return nil, err
	}
	return append([]model.Category(nil), categories...), nil
}

// Items returns the last published category list.
func (c *Categories) Items() []model.Category {
	c.gen.mu.Lock()
	defer c.gen.mu.Unlock()
	return append([]model.Category(nil), c.categories...)
}

// ByType returns the published categories of type t.
func (c *Categories) ByType(t model.TransactionType) []model.Category {
	return model.FilterCategories(c.Items(), t)
}

// LoadErr returns the failure of the latest load.
func (c *Categories) LoadErr() error {
	return c.gen.err()
}

// Create adds a category and reloads. A failed reload does not fail the
// create.
func (c *Categories) Create(ctx context.Context, payload model.CategoryPayload) error {
	if _, err := c.api.Create(ctx, payload); err != nil {
		return err
	}
	return c.reload(ctx)
}

// Update edits a category and reloads.
func (c *Categories) Update(ctx context.Context, id model.ID, payload model.CategoryPayload) error {
	if _, err := c.api.Update(ctx, id, payload); err != nil {
		return err
	}
	return c.reload(ctx)
}

// Delete removes a category and reloads.
func (c *Categories) Delete(ctx context.Context, id model.ID) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}
	return c.reload(ctx)
}

// Close tears the container down.
func (c *Categories) Close() {
	c.gen.close()
}

func (c *Categories) reload(ctx context.Context) error {
	if _, err := c.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		c.logger.Warn("category list not refreshed after change", "error", err)
	}
	return nil
}
