package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

// StoreFacade aggregates the application use cases behind one surface used
// by the HTTP handlers and the sweeper worker.
type StoreFacade struct {
	users    *usecase.UserUseCase
	products *usecase.ProductUseCase
	orders   *usecase.OrderUseCase
	sales    *usecase.SaleInfoUseCase
}

// NewStoreFacade constructs the facade.
func NewStoreFacade(
	users *usecase.UserUseCase,
	products *usecase.ProductUseCase,
	orders *usecase.OrderUseCase,
	sales *usecase.SaleInfoUseCase,
) *StoreFacade {
	return &StoreFacade{users: users, products: products, orders: orders, sales: sales}
}

func (f *StoreFacade) RegisterUser(ctx context.Context, in usecase.RegisterUserInput) (*model.User, error) {
	return f.users.Register(ctx, in)
}

func (f *StoreFacade) UserBucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error) {
	return f.users.Bucket(ctx, userID)
}

func (f *StoreFacade) AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	return f.users.AddBucketItem(ctx, userID, productID, quantity)
}

func (f *StoreFacade) RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error {
	return f.users.RemoveBucketItem(ctx, userID, productID)
}

func (f *StoreFacade) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	return f.products.CreateCategory(ctx, name)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, in usecase.CreateProductInput) (*model.Product, error) {
	return f.products.CreateProduct(ctx, in)
}

func (f *StoreFacade) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *StoreFacade) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *StoreFacade) Order(ctx context.Context, id uuid.UUID, fields model.OrderFields) (*model.Order, error) {
	return f.orders.Get(ctx, id, fields)
}

func (f *StoreFacade) OrdersByUser(ctx context.Context, userID uuid.UUID, fields model.OrderFields) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID, fields)
}

func (f *StoreFacade) UpdateOrderState(ctx context.Context, id uuid.UUID, state model.OrderState) error {
	return f.orders.UpdateState(ctx, id, state)
}

func (f *StoreFacade) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return f.orders.Delete(ctx, id)
}

func (f *StoreFacade) CreateSaleInfo(ctx context.Context, prods []uuid.UUID) (*model.SaleInfo, error) {
	return f.sales.Create(ctx, prods)
}

func (f *StoreFacade) SaleInfo(ctx context.Context, id uuid.UUID, populate bool) (*model.SaleInfo, error) {
	return f.sales.Get(ctx, id, populate)
}

func (f *StoreFacade) SaleInfoByDate(ctx context.Context, pivot time.Time, populate bool) (*model.SaleInfo, error) {
	return f.sales.FindByDate(ctx, pivot, populate)
}

func (f *StoreFacade) UpdateSaleInfo(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error {
	return f.sales.Update(ctx, id, prods)
}

func (f *StoreFacade) DeleteSaleInfo(ctx context.Context, id uuid.UUID) error {
	return f.sales.Delete(ctx, id)
}

func (f *StoreFacade) BeginTimeSale(ctx context.Context, ratio string, prods []uuid.UUID) error {
	return f.sales.BeginTimeSale(ctx, ratio, prods)
}

func (f *StoreFacade) CloseExpiredTimesales(ctx context.Context) (int64, error) {
	return f.sales.CloseExpiredTimesales(ctx)
}
