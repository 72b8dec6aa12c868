package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/lateralabs/trailblazer/internal/adapter/fcm"
	"github.com/lateralabs/trailblazer/internal/config"
	"github.com/lateralabs/trailblazer/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewUserUseCase,
	NewProductUseCase,
	newOrderUseCase,
	newSaleInfoUseCase,
)

type orderParams struct {
	fx.In

	Orders repository.OrderRepository
	Users  repository.UserRepository
	Config *config.Config
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Users, p.Config.ReceiveAfter)
}

type saleInfoParams struct {
	fx.In

	Sales    repository.SaleInfoRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
	Gateway  fcm.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newSaleInfoUseCase(p saleInfoParams) *SaleInfoUseCase {
	return NewSaleInfoUseCase(p.Sales, p.Products, p.Users, p.Gateway, p.Config.PushBatchSize, p.Logger)
}
