package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

// ProductUseCase manages the product catalog.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// CreateCategory registers a named product category.
func (u *ProductUseCase) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domainErrors.ErrInvalidParameters)
	}
	category := &model.Category{ID: uuid.New(), Name: name}
	if err := u.products.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateProductInput carries new product parameters.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	Ingredients []string
	Image       string
}

// CreateProduct registers a sellable item.
func (u *ProductUseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domainErrors.ErrInvalidParameters)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domainErrors.ErrInvalidParameters)
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Ingredients: in.Ingredients,
		Image:       in.Image,
	}
	if err := u.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get returns a product by id.
func (u *ProductUseCase) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}
