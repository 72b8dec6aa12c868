package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

// OrderUseCase encapsulates the order lifecycle: creation from the orderer's
// bucket snapshot and validated state transitions.
type OrderUseCase struct {
	orders       repository.OrderRepository
	users        repository.UserRepository
	receiveAfter time.Duration
	now          func() time.Time
}

// NewOrderUseCase constructs OrderUseCase. receiveAfter is the default
// delivery window applied when the caller doesn't supply one.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, receiveAfter time.Duration) *OrderUseCase {
	return &OrderUseCase{
		orders:       orders,
		users:        users,
		receiveAfter: receiveAfter,
		now:          time.Now,
	}
}

// CreateOrderInput carries the caller-supplied parts of a new order.
type CreateOrderInput struct {
	OrdererID     uuid.UUID
	DateToReceive *time.Time
	PhoneNumber   string
	Additional    string
}

// Create builds an order from the orderer's current bucket, snapshotting
// product names and prices, and clears the bucket once the order is
// persisted. The bucket stays intact when persistence fails.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	user, err := u.users.GetByID(ctx, in.OrdererID)
	if err != nil {
		return nil, err
	}

	bucket, err := u.users.Bucket(ctx, in.OrdererID)
	if err != nil {
		return nil, fmt.Errorf("load bucket: %w", err)
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(bucket))
	for _, entry := range bucket {
		items = append(items, model.OrderItem{
			ProductID: entry.ProductID,
			Name:      entry.Product.Name,
			UnitPrice: entry.Product.Price,
			Quantity:  entry.Quantity,
		})
		total = total.Add(entry.Product.Price.Mul(decimal.NewFromInt32(entry.Quantity)))
	}

	now := u.now()
	dateToReceive := now.Add(u.receiveAfter)
	if in.DateToReceive != nil {
		dateToReceive = *in.DateToReceive
	}
	phoneNumber := in.PhoneNumber
	if phoneNumber == "" {
		phoneNumber = user.PhoneNumber
	}

	order := &model.Order{
		ID:            uuid.New(),
		OrdererID:     user.ID,
		DateOrdered:   now,
		DateToReceive: dateToReceive,
		Items:         items,
		PhoneNumber:   phoneNumber,
		State:         model.OrderStatePending,
		Additional:    in.Additional,
		PriceTotal:    total,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// Only after the order is durable. A failure here leaves a stale
	// bucket, which the caller sees as a server fault.
	if err := u.users.ClearBucket(ctx, in.OrdererID); err != nil {
		return nil, fmt.Errorf("clear bucket: %w", err)
	}

	return order, nil
}

// Get returns one order with references resolved per the field selector.
func (u *OrderUseCase) Get(ctx context.Context, id uuid.UUID, fields model.OrderFields) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.resolveOrderer(ctx, fields, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first, with references
// resolved per the field selector.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID uuid.UUID, fields model.OrderFields) ([]model.Order, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := u.resolveOrderer(ctx, fields, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (u *OrderUseCase) resolveOrderer(ctx context.Context, fields model.OrderFields, order *model.Order) error {
	if !fields.Orderer {
		return nil
	}
	user, err := u.users.GetByID(ctx, order.OrdererID)
	if err != nil {
		return fmt.Errorf("resolve orderer: %w", err)
	}
	order.Orderer = &model.UserSummary{ID: user.ID, Email: user.Email, PhoneNumber: user.PhoneNumber}
	return nil
}

// UpdateState applies a state transition after validating it against the
// lifecycle table. Reaching the received state stamps date_received.
func (u *OrderUseCase) UpdateState(ctx context.Context, id uuid.UUID, next model.OrderState) error {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !order.State.CanTransitionTo(next) {
		return domainErrors.ErrInvalidTransition
	}

	var dateReceived *time.Time
	if next == model.OrderStateReceived {
		received := u.now()
		dateReceived = &received
	}

	return u.orders.UpdateState(ctx, id, next, dateReceived)
}

// Delete removes the order without touching user or product records.
func (u *OrderUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.orders.Delete(ctx, id)
}
