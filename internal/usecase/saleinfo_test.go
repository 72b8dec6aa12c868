package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
	"github.com/lateralabs/trailblazer/internal/test"
)

func newSaleInfoUseCaseForTest(
	sales *test.SaleInfoRepositoryStub,
	products *test.ProductRepositoryStub,
	users *test.UserRepositoryStub,
	gateway *test.GatewayStub,
	pushBatch int,
) *SaleInfoUseCase {
	uc := NewSaleInfoUseCase(sales, products, users, nil, pushBatch, slog.Default())
	if gateway != nil {
		uc.gateway = gateway
	}
	return uc
}

func TestSaleInfoCreateOncePerDay(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)
	uc.now = fixedClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	prod := uuid.New()
	si, err := uc.Create(context.Background(), []uuid.UUID{prod})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{prod}, si.ProdsToday)
	assert.False(t, si.TimeSale.Started)
	assert.True(t, si.TimeSale.Ratio.Equal(decimal.Zero))

	// Second registration on the same day must conflict, even late in the day.
	uc.now = fixedClock(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC))
	_, err = uc.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domainErrors.ErrConflict)

	// The next day is a fresh slot.
	uc.now = fixedClock(time.Date(2026, 9, 1, 0, 0, 1, 0, time.UTC))
	_, err = uc.Create(context.Background(), nil)
	assert.NoError(t, err)
}

func TestSaleInfoFindByDate(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	products := test.NewProductRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, products, test.NewUserRepositoryStub(), nil, 0)
	uc.now = fixedClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	croissant := &model.Product{ID: uuid.New(), Name: "croissant", Price: decimal.NewFromInt(3000)}
	products.Products[croissant.ID] = croissant

	created, err := uc.Create(context.Background(), []uuid.UUID{croissant.ID})
	require.NoError(t, err)

	found, err := uc.FindByDate(context.Background(), time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Products, 1)
	assert.Equal(t, "croissant", found.Products[0].Name)

	_, err = uc.FindByDate(context.Background(), time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), false)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestBeginTimeSale(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	uc.now = fixedClock(now)

	si, err := uc.Create(context.Background(), nil)
	require.NoError(t, err)

	prod := uuid.New()
	require.NoError(t, uc.BeginTimeSale(context.Background(), "20", []uuid.UUID{prod}))

	stored, err := sales.GetByID(context.Background(), si.ID)
	require.NoError(t, err)
	assert.True(t, stored.TimeSale.Started)
	assert.True(t, stored.TimeSale.Ratio.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, []uuid.UUID{prod}, stored.TimeSale.Prods)
	require.NotNil(t, stored.TimeSale.DateStarted)
	assert.True(t, stored.TimeSale.DateStarted.Equal(now))
	require.NotNil(t, stored.TimeSale.ExpiresAt)
	assert.True(t, stored.TimeSale.ExpiresAt.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBeginTimeSaleBadRatio(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)
	uc.now = fixedClock(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	_, err := uc.Create(context.Background(), nil)
	require.NoError(t, err)

	err = uc.BeginTimeSale(context.Background(), "twenty", nil)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidParameters)
}

func TestBeginTimeSaleWithoutSaleInfo(t *testing.T) {
	uc := newSaleInfoUseCaseForTest(test.NewSaleInfoRepositoryStub(), test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)

	err := uc.BeginTimeSale(context.Background(), "20", nil)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestBeginTimeSaleFanOutChunks(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	users := test.NewUserRepositoryStub()
	for i := 0; i < 2500; i++ {
		users.Tokens = append(users.Tokens, fmt.Sprintf("device-%04d", i))
	}
	gateway := test.NewGatewayStub(true)

	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), users, gateway, 1000)
	uc.now = fixedClock(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	_, err := uc.Create(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, uc.BeginTimeSale(context.Background(), "15", nil))

	sizes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case batch := <-gateway.Calls:
			sizes = append(sizes, len(batch))
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 3 broadcasts, got %d", len(sizes))
		}
	}
	assert.Equal(t, []int{1000, 1000, 500}, sizes)

	select {
	case batch := <-gateway.Calls:
		t.Fatalf("unexpected extra broadcast of %d tokens", len(batch))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBeginTimeSaleDisabledGateway(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	users := test.NewUserRepositoryStub()
	users.Tokens = []string{"device-1"}
	gateway := test.NewGatewayStub(false)

	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), users, gateway, 1000)
	uc.now = fixedClock(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))

	_, err := uc.Create(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, uc.BeginTimeSale(context.Background(), "15", nil))

	select {
	case <-gateway.Calls:
		t.Fatal("disabled gateway must not be called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseExpiredTimesales(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)
	started := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	uc.now = fixedClock(started)

	_, err := uc.Create(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, uc.BeginTimeSale(context.Background(), "20", nil))

	// Before expiry nothing closes.
	closed, err := uc.CloseExpiredTimesales(context.Background())
	require.NoError(t, err)
	assert.Zero(t, closed)

	// Past midnight the persisted expiry takes effect.
	uc.now = fixedClock(time.Date(2026, 9, 1, 0, 0, 30, 0, time.UTC))
	closed, err = uc.CloseExpiredTimesales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	for _, si := range sales.Records {
		assert.False(t, si.TimeSale.Started)
	}
}

func TestSaleInfoUpdateProds(t *testing.T) {
	sales := test.NewSaleInfoRepositoryStub()
	uc := newSaleInfoUseCaseForTest(sales, test.NewProductRepositoryStub(), test.NewUserRepositoryStub(), nil, 0)
	uc.now = fixedClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	si, err := uc.Create(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)

	replacement := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, uc.Update(context.Background(), si.ID, replacement))

	stored, err := sales.GetByID(context.Background(), si.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, stored.ProdsToday)

	err = uc.Update(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}
