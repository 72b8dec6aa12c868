package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// SaleInfoRepository describes persistence operations with per-day sale info
// records.
type SaleInfoRepository interface {
	Create(ctx context.Context, si *model.SaleInfo) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SaleInfo, error)
	// FindInRange returns the at-most-one record whose date_sale falls in
	// the half-open interval [from, to).
	FindInRange(ctx context.Context, from, to time.Time) (*model.SaleInfo, error)
	UpdateProds(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error
	SetTimeSale(ctx context.Context, id uuid.UUID, ts model.TimeSale) error
	// CloseExpired flips started off for every time sale past its expiry
	// and returns how many records were closed.
	CloseExpired(ctx context.Context, asOf time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
