package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/lateralabs/trailblazer/internal/domain/errors"
	"github.com/lateralabs/trailblazer/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	storage := &Storage{
		pool:   mock,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	return storage, mock
}

func TestUserCreateConflict(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := storage.Users().Create(context.Background(), &model.User{ID: uuid.New(), Email: "dup@example.com"})
	assert.ErrorIs(t, err, domainErrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveBucketItemNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	userID, productID := uuid.New(), uuid.New()
	mock.ExpectExec("DELETE FROM bucket_items").
		WithArgs(userID, productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := storage.Users().RemoveBucketItem(context.Background(), userID, productID)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRunsInTransaction(t *testing.T) {
	storage, mock := newMockStorage(t)

	order := &model.Order{
		ID:            uuid.New(),
		OrdererID:     uuid.New(),
		DateOrdered:   time.Now(),
		DateToReceive: time.Now().Add(time.Hour),
		State:         model.OrderStatePending,
		PriceTotal:    decimal.NewFromInt(7000),
		Items: []model.OrderItem{
			{ProductID: uuid.New(), Name: "americano", UnitPrice: decimal.NewFromInt(2000), Quantity: 2},
			{ProductID: uuid.New(), Name: "croissant", UnitPrice: decimal.NewFromInt(3000), Quantity: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.OrdererID, order.DateOrdered, order.DateToReceive,
			order.PhoneNumber, order.State, order.Additional, order.PriceTotal).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, item := range order.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, storage.Orders().Create(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRollsBackOnItemFailure(t *testing.T) {
	storage, mock := newMockStorage(t)

	order := &model.Order{
		ID:    uuid.New(),
		State: model.OrderStatePending,
		Items: []model.OrderItem{
			{ProductID: uuid.New(), Name: "americano", UnitPrice: decimal.NewFromInt(2000), Quantity: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.OrdererID, order.DateOrdered, order.DateToReceive,
			order.PhoneNumber, order.State, order.Additional, order.PriceTotal).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, order.Items[0].ProductID, order.Items[0].Name,
			order.Items[0].UnitPrice, order.Items[0].Quantity).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := storage.Orders().Create(context.Background(), order)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderUpdateStateNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	id := uuid.New()
	mock.ExpectExec("UPDATE orders SET state").
		WithArgs(model.OrderStateProcessing, pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := storage.Orders().UpdateState(context.Background(), id, model.OrderStateProcessing, nil)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderUpdateStateStampsDateReceived(t *testing.T) {
	storage, mock := newMockStorage(t)

	id := uuid.New()
	received := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE orders SET state").
		WithArgs(model.OrderStateReceived, &received, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := storage.Orders().UpdateState(context.Background(), id, model.OrderStateReceived, &received)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleInfoCreateConflict(t *testing.T) {
	storage, mock := newMockStorage(t)

	si := &model.SaleInfo{
		ID:         uuid.New(),
		DateSale:   time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		ProdsToday: []uuid.UUID{},
		TimeSale:   model.TimeSale{Ratio: decimal.Zero, Prods: []uuid.UUID{}},
	}

	mock.ExpectExec("INSERT INTO sale_infos").
		WithArgs(si.ID, si.DateSale, model.DayKey(si.DateSale), si.ProdsToday,
			si.TimeSale.Started, si.TimeSale.Ratio, si.TimeSale.DateStarted,
			si.TimeSale.ExpiresAt, si.TimeSale.Prods).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := storage.SaleInfos().Create(context.Background(), si)
	assert.ErrorIs(t, err, domainErrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleInfoFindInRange(t *testing.T) {
	storage, mock := newMockStorage(t)

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	id := uuid.New()
	started := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	expires := to

	rows := pgxmock.NewRows([]string{
		"id", "date_sale", "prods_today", "ts_started", "ts_ratio",
		"ts_date_started", "ts_expires_at", "ts_prods",
	}).AddRow(
		id, started, []uuid.UUID{}, true, decimal.NewFromInt(20),
		&started, &expires, []uuid.UUID{},
	)

	mock.ExpectQuery("SELECT (.+) FROM sale_infos WHERE date_sale").
		WithArgs(from, to).
		WillReturnRows(rows)

	si, err := storage.SaleInfos().FindInRange(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, id, si.ID)
	assert.True(t, si.TimeSale.Started)
	assert.True(t, si.TimeSale.Ratio.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, si.TimeSale.ExpiresAt)
	assert.True(t, si.TimeSale.ExpiresAt.Equal(expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleInfoFindInRangeNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM sale_infos WHERE date_sale").
		WithArgs(from, to).
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.SaleInfos().FindInRange(context.Background(), from, to)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseExpired(t *testing.T) {
	storage, mock := newMockStorage(t)

	asOf := time.Date(2026, 9, 1, 0, 0, 30, 0, time.UTC)
	mock.ExpectExec("UPDATE sale_infos SET ts_started=FALSE").
		WithArgs(asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	closed, err := storage.SaleInfos().CloseExpired(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTimeSaleNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	id := uuid.New()
	ts := model.TimeSale{Started: true, Ratio: decimal.NewFromInt(20), Prods: []uuid.UUID{}}
	mock.ExpectExec("UPDATE sale_infos").
		WithArgs(ts.Started, ts.Ratio, ts.DateStarted, ts.ExpiresAt, ts.Prods, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := storage.SaleInfos().SetTimeSale(context.Background(), id, ts)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
