package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

// UserFacade describes user and bucket capabilities required by handlers.
type UserFacade interface {
	RegisterUser(ctx context.Context, in usecase.RegisterUserInput) (*model.User, error)
	UserBucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error)
	AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error
	RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error
}

// ProductFacade describes catalog capabilities required by handlers.
type ProductFacade interface {
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	CreateProduct(ctx context.Context, in usecase.CreateProductInput) (*model.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, id uuid.UUID, fields model.OrderFields) (*model.Order, error)
	OrdersByUser(ctx context.Context, userID uuid.UUID, fields model.OrderFields) ([]model.Order, error)
	UpdateOrderState(ctx context.Context, id uuid.UUID, state model.OrderState) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// SaleFacade encapsulates sale promotion operations exposed via HTTP.
type SaleFacade interface {
	CreateSaleInfo(ctx context.Context, prods []uuid.UUID) (*model.SaleInfo, error)
	SaleInfo(ctx context.Context, id uuid.UUID, populate bool) (*model.SaleInfo, error)
	SaleInfoByDate(ctx context.Context, pivot time.Time, populate bool) (*model.SaleInfo, error)
	UpdateSaleInfo(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error
	DeleteSaleInfo(ctx context.Context, id uuid.UUID) error
	BeginTimeSale(ctx context.Context, ratio string, prods []uuid.UUID) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	UserFacade
	ProductFacade
	OrderFacade
	SaleFacade
}
