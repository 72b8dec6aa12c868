package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// ProductRepository describes persistence operations with products and
// categories.
type ProductRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	CreateProduct(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
}
