package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	UpdateState(ctx context.Context, id uuid.UUID, state model.OrderState, dateReceived *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}
