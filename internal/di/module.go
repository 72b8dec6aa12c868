package di

import (
	"go.uber.org/fx"

	"github.com/lateralabs/trailblazer/internal/adapter/fcm"
	"github.com/lateralabs/trailblazer/internal/app"
	"github.com/lateralabs/trailblazer/internal/config"
	"github.com/lateralabs/trailblazer/internal/logger"
	"github.com/lateralabs/trailblazer/internal/server/http/handlers"
	"github.com/lateralabs/trailblazer/internal/server/http/router"
	"github.com/lateralabs/trailblazer/internal/storage/postgres"
	"github.com/lateralabs/trailblazer/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		fcm.Module,
		usecase.Module,
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
