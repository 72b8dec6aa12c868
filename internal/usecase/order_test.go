package usecase

import (
	"context"
	"errors"
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

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedUser(users *test.UserRepositoryStub) *model.User {
	user := &model.User{ID: uuid.New(), Email: "orderer@example.com", PhoneNumber: "010-1234-5678"}
	users.Users[user.ID] = user
	return user
}

func seedBucket(users *test.UserRepositoryStub, userID uuid.UUID, entries ...model.BucketItem) {
	users.Buckets[userID] = entries
}

func bucketEntry(name string, price int64, quantity int32) model.BucketItem {
	product := &model.Product{ID: uuid.New(), Name: name, Price: decimal.NewFromInt(price)}
	return model.BucketItem{ProductID: product.ID, Quantity: quantity, Product: product}
}

func TestOrderCreateSnapshotsBucket(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	user := seedUser(users)
	americano := bucketEntry("americano", 2000, 2)
	croissant := bucketEntry("croissant", 3000, 1)
	seedBucket(users, user.ID, americano, croissant)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	uc := NewOrderUseCase(orders, users, 168*time.Hour)
	uc.now = fixedClock(now)

	order, err := uc.Create(context.Background(), CreateOrderInput{OrdererID: user.ID})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatePending, order.State)
	assert.True(t, order.PriceTotal.Equal(decimal.NewFromInt(7000)))
	assert.True(t, order.DateOrdered.Equal(now))
	assert.True(t, order.DateToReceive.Equal(now.Add(168*time.Hour)))
	assert.Equal(t, user.PhoneNumber, order.PhoneNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "americano", order.Items[0].Name)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, int32(2), order.Items[0].Quantity)

	assert.Equal(t, []uuid.UUID{user.ID}, users.Cleared)
	assert.Empty(t, users.Buckets[user.ID])

	// Later product edits must not touch the persisted snapshot.
	americano.Product.Price = decimal.NewFromInt(9999)
	stored, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(2000)))
	assert.True(t, stored.PriceTotal.Equal(decimal.NewFromInt(7000)))
}

func TestOrderCreateExplicitFields(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	user := seedUser(users)
	seedBucket(users, user.ID, bucketEntry("americano", 2000, 1))

	receive := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	uc := NewOrderUseCase(orders, users, 168*time.Hour)

	order, err := uc.Create(context.Background(), CreateOrderInput{
		OrdererID:     user.ID,
		DateToReceive: &receive,
		PhoneNumber:   "010-0000-0000",
		Additional:    "less ice",
	})
	require.NoError(t, err)
	assert.True(t, order.DateToReceive.Equal(receive))
	assert.Equal(t, "010-0000-0000", order.PhoneNumber)
	assert.Equal(t, "less ice", order.Additional)
}

func TestOrderCreateUnknownUser(t *testing.T) {
	uc := NewOrderUseCase(test.NewOrderRepositoryStub(), test.NewUserRepositoryStub(), time.Hour)

	_, err := uc.Create(context.Background(), CreateOrderInput{OrdererID: uuid.New()})
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestOrderCreateKeepsBucketWhenPersistFails(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	user := seedUser(users)
	seedBucket(users, user.ID, bucketEntry("americano", 2000, 1))

	orders.CreateFn = func(context.Context, *model.Order) error {
		return errors.New("connection reset")
	}
	uc := NewOrderUseCase(orders, users, time.Hour)

	_, err := uc.Create(context.Background(), CreateOrderInput{OrdererID: user.ID})
	require.Error(t, err)
	assert.Empty(t, users.Cleared)
	assert.Len(t, users.Buckets[user.ID], 1)
}

func TestOrderUpdateState(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	orderID := uuid.New()
	orders.Orders[orderID] = &model.Order{ID: orderID, State: model.OrderStatePending}

	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	uc := NewOrderUseCase(orders, users, time.Hour)
	uc.now = fixedClock(now)

	require.NoError(t, uc.UpdateState(context.Background(), orderID, model.OrderStateProcessing))
	require.NoError(t, uc.UpdateState(context.Background(), orderID, model.OrderStateReceived))

	stored, err := orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStateReceived, stored.State)
	require.NotNil(t, stored.DateReceived)
	assert.True(t, stored.DateReceived.Equal(now))

	// Terminal state rejects everything.
	err = uc.UpdateState(context.Background(), orderID, model.OrderStateProcessing)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
}

func TestOrderUpdateStateIllegalSkip(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	orderID := uuid.New()
	orders.Orders[orderID] = &model.Order{ID: orderID, State: model.OrderStatePending}

	uc := NewOrderUseCase(orders, test.NewUserRepositoryStub(), time.Hour)

	err := uc.UpdateState(context.Background(), orderID, model.OrderStateReceived)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Empty(t, orders.UpdateCalls)
}

func TestOrderUpdateStateUnknownOrder(t *testing.T) {
	uc := NewOrderUseCase(test.NewOrderRepositoryStub(), test.NewUserRepositoryStub(), time.Hour)

	err := uc.UpdateState(context.Background(), uuid.New(), model.OrderStateProcessing)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestOrderGetResolvesOrderer(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	user := seedUser(users)
	orderID := uuid.New()
	orders.Orders[orderID] = &model.Order{ID: orderID, OrdererID: user.ID, State: model.OrderStatePending}

	uc := NewOrderUseCase(orders, users, time.Hour)

	plain, err := uc.Get(context.Background(), orderID, model.OrderFields{})
	require.NoError(t, err)
	assert.Nil(t, plain.Orderer)

	resolved, err := uc.Get(context.Background(), orderID, model.OrderFields{Orderer: true})
	require.NoError(t, err)
	require.NotNil(t, resolved.Orderer)
	assert.Equal(t, user.Email, resolved.Orderer.Email)
	assert.Equal(t, user.PhoneNumber, resolved.Orderer.PhoneNumber)
}

func TestOrderLifecycleFromBucketToReceived(t *testing.T) {
	users := test.NewUserRepositoryStub()
	orders := test.NewOrderRepositoryStub()
	products := test.NewProductRepositoryStub()
	user := seedUser(users)

	americano := &model.Product{ID: uuid.New(), Name: "americano", Price: decimal.NewFromInt(2000)}
	croissant := &model.Product{ID: uuid.New(), Name: "croissant", Price: decimal.NewFromInt(3000)}
	products.Products[americano.ID] = americano
	products.Products[croissant.ID] = croissant

	userUC := NewUserUseCase(users, products)
	require.NoError(t, userUC.AddBucketItem(context.Background(), user.ID, americano.ID, 2))
	require.NoError(t, userUC.AddBucketItem(context.Background(), user.ID, croissant.ID, 1))

	// The repository resolves product references when loading the bucket.
	for i := range users.Buckets[user.ID] {
		users.Buckets[user.ID][i].Product = products.Products[users.Buckets[user.ID][i].ProductID]
	}

	orderUC := NewOrderUseCase(orders, users, 168*time.Hour)
	order, err := orderUC.Create(context.Background(), CreateOrderInput{OrdererID: user.ID})
	require.NoError(t, err)
	assert.True(t, order.PriceTotal.Equal(decimal.NewFromInt(7000)))

	require.NoError(t, orderUC.UpdateState(context.Background(), order.ID, model.OrderStateProcessing))
	require.NoError(t, orderUC.UpdateState(context.Background(), order.ID, model.OrderStateReceiving))
	require.NoError(t, orderUC.UpdateState(context.Background(), order.ID, model.OrderStateReceived))

	err = orderUC.UpdateState(context.Background(), order.ID, model.OrderStateCancelled)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
}
