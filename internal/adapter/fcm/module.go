package fcm

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/lateralabs/trailblazer/internal/config"
)

// Module exposes the push gateway implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) Client {
	return NewHTTPClient(p.Config.FCMServerKey, p.Logger)
}
