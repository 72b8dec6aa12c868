package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/lateralabs/trailblazer/internal/adapter/fcm"
	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

const notifyTimeout = 30 * time.Second

// SaleInfoUseCase manages the per-day sale record and its time-boxed
// discount window.
type SaleInfoUseCase struct {
	sales     repository.SaleInfoRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	gateway   fcm.Client
	pushBatch int
	logger    *slog.Logger
	now       func() time.Time
}

// NewSaleInfoUseCase constructs SaleInfoUseCase. pushBatch bounds how many
// device tokens go into one broadcast call.
func NewSaleInfoUseCase(
	sales repository.SaleInfoRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	gateway fcm.Client,
	pushBatch int,
	logger *slog.Logger,
) *SaleInfoUseCase {
	if pushBatch <= 0 {
		pushBatch = 1000
	}
	return &SaleInfoUseCase{
		sales:     sales,
		products:  products,
		users:     users,
		gateway:   gateway,
		pushBatch: pushBatch,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers today's sale info. At most one record may exist per UTC
// calendar day; the pre-check mirrors the storage-level unique day key, both
// surface as ErrConflict.
func (u *SaleInfoUseCase) Create(ctx context.Context, prods []uuid.UUID) (*model.SaleInfo, error) {
	now := u.now()
	from, to := model.DayBounds(now)

	existing, err := u.sales.FindInRange(ctx, from, to)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainErrors.ErrConflict
	}

	if prods == nil {
		prods = []uuid.UUID{}
	}
	si := &model.SaleInfo{
		ID:         uuid.New(),
		DateSale:   now,
		ProdsToday: prods,
		TimeSale: model.TimeSale{
			Started: false,
			Ratio:   decimal.Zero,
			Prods:   []uuid.UUID{},
		},
	}

	if err := u.sales.Create(ctx, si); err != nil {
		return nil, err
	}
	return si, nil
}

// Get returns the sale info by id, resolving product references when
// populate is set.
func (u *SaleInfoUseCase) Get(ctx context.Context, id uuid.UUID, populate bool) (*model.SaleInfo, error) {
	si, err := u.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if populate {
		if err := u.populate(ctx, si); err != nil {
			return nil, err
		}
	}
	return si, nil
}

// FindByDate returns the at-most-one sale info whose date_sale falls in the
// UTC day containing pivot.
func (u *SaleInfoUseCase) FindByDate(ctx context.Context, pivot time.Time, populate bool) (*model.SaleInfo, error) {
	from, to := model.DayBounds(pivot)
	si, err := u.sales.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if populate {
		if err := u.populate(ctx, si); err != nil {
			return nil, err
		}
	}
	return si, nil
}

// Update replaces today's product list wholesale.
func (u *SaleInfoUseCase) Update(ctx context.Context, id uuid.UUID, prods []uuid.UUID) error {
	if prods == nil {
		prods = []uuid.UUID{}
	}
	return u.sales.UpdateProds(ctx, id, prods)
}

// Delete removes the sale info record.
func (u *SaleInfoUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.sales.Delete(ctx, id)
}

// BeginTimeSale opens today's discount window. The ratio is taken as-is, no
// 0-100 clamp. The window's expiry is persisted as the next UTC midnight and
// closed by the reconciliation sweep, so it survives a process restart.
// When a push gateway is configured the opted-in devices are notified
// asynchronously.
func (u *SaleInfoUseCase) BeginTimeSale(ctx context.Context, ratio string, prods []uuid.UUID) error {
	r, err := decimal.NewFromString(strings.TrimSpace(ratio))
	if err != nil {
		return fmt.Errorf("%w: ratio", domainErrors.ErrInvalidParameters)
	}

	now := u.now()
	from, to := model.DayBounds(now)
	si, err := u.sales.FindInRange(ctx, from, to)
	if err != nil {
		return err
	}

	if prods == nil {
		prods = []uuid.UUID{}
	}
	started := now
	expires := model.NextUTCMidnight(now)
	ts := model.TimeSale{
		Started:     true,
		Ratio:       r,
		DateStarted: &started,
		ExpiresAt:   &expires,
		Prods:       prods,
	}

	if err := u.sales.SetTimeSale(ctx, si.ID, ts); err != nil {
		return err
	}

	u.notifyTimeSaleBegin()
	return nil
}

// CloseExpiredTimesales flips off every time sale past its persisted expiry.
// Called periodically by the sweeper worker.
func (u *SaleInfoUseCase) CloseExpiredTimesales(ctx context.Context) (int64, error) {
	return u.sales.CloseExpired(ctx, u.now())
}

func (u *SaleInfoUseCase) populate(ctx context.Context, si *model.SaleInfo) error {
	prods, err := u.products.ListByIDs(ctx, si.ProdsToday)
	if err != nil {
		return fmt.Errorf("resolve prods_today: %w", err)
	}
	tsProds, err := u.products.ListByIDs(ctx, si.TimeSale.Prods)
	if err != nil {
		return fmt.Errorf("resolve timesale prods: %w", err)
	}
	si.Products = prods
	si.TimeSaleProducts = tsProds
	return nil
}

// notifyTimeSaleBegin fans out the begin notification in bounded chunks.
// Fire-and-forget: failures are logged, never surfaced to the caller.
func (u *SaleInfoUseCase) notifyTimeSaleBegin() {
	if u.gateway == nil || !u.gateway.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		tokens, err := u.users.ListPushTokens(ctx)
		if err != nil {
			u.logger.Error("list push tokens failed", slog.String("error", err.Error()))
			return
		}
		if len(tokens) == 0 {
			return
		}

		notification := fcm.Notification{Title: "TIMESALE", Body: "BEGIN"}
		for _, chunk := range lo.Chunk(tokens, u.pushBatch) {
			if err := u.gateway.Broadcast(ctx, chunk, notification); err != nil {
				u.logger.Error("timesale push broadcast failed",
					slog.Int("tokens", len(chunk)),
					slog.String("error", err.Error()),
				)
			}
		}
	}()
}
