package test

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// UserRepositoryStub stores users and buckets in-memory for tests.
type UserRepositoryStub struct {
	Users   map[uuid.UUID]*model.User
	Buckets map[uuid.UUID][]model.BucketItem
	Tokens  []string

	CreateErr error
	ClearErr  error
	Cleared   []uuid.UUID

	BucketFn func(context.Context, uuid.UUID) ([]model.BucketItem, error)
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:   make(map[uuid.UUID]*model.User),
		Buckets: make(map[uuid.UUID][]model.BucketItem),
	}
}

// Create registers user unless the email is taken or the stub has an
// explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, existing := range s.Users {
		if existing.Email == user.Email {
			return domainErrors.ErrConflict
		}
	}
	s.Users[user.ID] = user
	return nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if user, ok := s.Users[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Bucket returns configured bucket entries.
func (s *UserRepositoryStub) Bucket(ctx context.Context, userID uuid.UUID) ([]model.BucketItem, error) {
	if s.BucketFn != nil {
		return s.BucketFn(ctx, userID)
	}
	return s.Buckets[userID], nil
}

// AddBucketItem appends or merges a bucket entry.
func (s *UserRepositoryStub) AddBucketItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	items := s.Buckets[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return nil
		}
	}
	s.Buckets[userID] = append(items, model.BucketItem{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveBucketItem drops a bucket entry or returns not found.
func (s *UserRepositoryStub) RemoveBucketItem(ctx context.Context, userID, productID uuid.UUID) error {
	items := s.Buckets[userID]
	for i := range items {
		if items[i].ProductID == productID {
			s.Buckets[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// ClearBucket empties the user's bucket and records the invocation.
func (s *UserRepositoryStub) ClearBucket(ctx context.Context, userID uuid.UUID) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Cleared = append(s.Cleared, userID)
	delete(s.Buckets, userID)
	return nil
}

// ListPushTokens returns configured device tokens.
func (s *UserRepositoryStub) ListPushTokens(ctx context.Context) ([]string, error) {
	return s.Tokens, nil
}

// ProductRepositoryStub stores catalog entries in-memory for tests.
type ProductRepositoryStub struct {
	Categories map[uuid.UUID]*model.Category
	Products   map[uuid.UUID]*model.Product
}

// NewProductRepositoryStub constructs stub repository with initialized maps.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{
		Categories: make(map[uuid.UUID]*model.Category),
		Products:   make(map[uuid.UUID]*model.Product),
	}
}

// CreateCategory registers a category unless the name is taken.
func (s *ProductRepositoryStub) CreateCategory(ctx context.Context, category *model.Category) error {
	for _, existing := range s.Categories {
		if existing.Name == category.Name {
			return domainErrors.ErrConflict
		}
	}
	s.Categories[category.ID] = category
	return nil
}

// CreateProduct registers a product.
func (s *ProductRepositoryStub) CreateProduct(ctx context.Context, product *model.Product) error {
	s.Products[product.ID] = product
	return nil
}

// GetByID fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if product, ok := s.Products[id]; ok {
		return product, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByIDs returns the stored products matching ids, skipping unknowns.
func (s *ProductRepositoryStub) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, id := range ids {
		if product, ok := s.Products[id]; ok {
			result = append(result, *product)
		}
	}
	return result, nil
}

// OrderUpdateCall records one UpdateState invocation.
type OrderUpdateCall struct {
	ID           uuid.UUID
	State        model.OrderState
	DateReceived *time.Time
}

// OrderRepositoryStub stores orders in-memory for tests.
type OrderRepositoryStub struct {
	Orders map[uuid.UUID]*model.Order

	CreateFn    func(context.Context, *model.Order) error
	UpdateErr   error
	UpdateCalls []OrderUpdateCall
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[uuid.UUID]*model.Order)}
}

// Create stores the order or executes the override.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	stored := *order
	s.Orders[order.ID] = &stored
	return nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns the user's stored orders.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var result []model.Order
	for _, order := range s.Orders {
		if order.OrdererID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

// UpdateState records the invocation and applies it to the stored order.
func (s *OrderRepositoryStub) UpdateState(ctx context.Context, id uuid.UUID, state model.OrderState, dateReceived *time.Time) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{ID: id, State: state, DateReceived: dateReceived})
	order.State = state
	if dateReceived != nil {
		order.DateReceived = dateReceived
	}
	return nil
}

// Delete drops the stored order or returns not found.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	return nil
}

// SaleInfoRepositoryStub stores sale info records in-memory for tests.
type SaleInfoRepositoryStub struct {
	Records map[uuid.UUID]*model.SaleInfo

	CreateErr      error
	SetTimeSaleErr error
	CloseCalls     []time.Time
	CloseExpiredFn func(context.Context, time.Time) (int64, error)
}

// NewSaleInfoRepositoryStub constructs stub repository with initialized maps.
func NewSaleInfoRepositoryStub() *SaleInfoRepositoryStub {
	return &SaleInfoRepositoryStub{Records: make(map[uuid.UUID]*model.SaleInfo)}
}

// Create stores the record, enforcing the one-per-day key like the real
// storage does.
func (s *SaleInfoRepositoryStub) Create(ctx context.Context, si *model.SaleInfo) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, existing := range s.Records {
		if model.DayKey(existing.DateSale).Equal(model.DayKey(si.DateSale)) {
			return domainErrors.ErrConflict
		}
	}
	stored := *si
	s.Records[si.ID] = &stored
	return nil
}

// GetByID fetches record by identifier or returns not found.
func (s *SaleInfoRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.SaleInfo, error) {
	if si, ok := s.Records[id]; ok {
		copied := *si
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// FindInRange returns the record whose date_sale falls in [from, to).
func (s *SaleInfoRepositoryStub) FindInRange(ctx context.Context, from, to time.Time) (*model.SaleInfo, error) {
	for _, si := range s.Records {
		if !si.DateSale.Before(from) && si.DateSale.Before(to) {
			copied := *si
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProds replaces the day's product list.
func (s *SaleInfoRepositoryStub) UpdateProds(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error {
	si, ok := s.Records[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	si.ProdsToday = prods
	return nil
}

// SetTimeSale applies the discount window to the stored record.
func (s *SaleInfoRepositoryStub) SetTimeSale(ctx context.Context, id uuid.UUID, ts model.TimeSale) error {
	if s.SetTimeSaleErr != nil {
		return s.SetTimeSaleErr
	}
	si, ok := s.Records[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	si.TimeSale = ts
	return nil
}

// CloseExpired flips off started windows past expiry, mirroring the real
// storage sweep.
func (s *SaleInfoRepositoryStub) CloseExpired(ctx context.Context, asOf time.Time) (int64, error) {
	s.CloseCalls = append(s.CloseCalls, asOf)
	if s.CloseExpiredFn != nil {
		return s.CloseExpiredFn(ctx, asOf)
	}
	var closed int64
	for _, si := range s.Records {
		if si.TimeSale.Started && si.TimeSale.ExpiresAt != nil && !si.TimeSale.ExpiresAt.After(asOf) {
			si.TimeSale.Started = false
			closed++
		}
	}
	return closed, nil
}

// Delete drops the stored record or returns not found.
func (s *SaleInfoRepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.Records[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Records, id)
	return nil
}
