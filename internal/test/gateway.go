package test

import (
	"context"

	"github.com/lateralabs/trailblazer/internal/adapter/fcm"
)

// GatewayStub records push broadcasts for tests. Each call delivers its
// token batch on Calls so tests can wait for asynchronous fan-out.
type GatewayStub struct {
	On    bool
	Err   error
	Calls chan []string
}

// NewGatewayStub constructs the stub with a buffered call channel.
func NewGatewayStub(on bool) *GatewayStub {
	return &GatewayStub{On: on, Calls: make(chan []string, 16)}
}

// Enabled reports the configured flag.
func (g *GatewayStub) Enabled() bool {
	return g.On
}

// Broadcast records the batch and returns the configured error.
func (g *GatewayStub) Broadcast(ctx context.Context, tokens []string, n fcm.Notification) error {
	batch := make([]string, len(tokens))
	copy(batch, tokens)
	g.Calls <- batch
	return g.Err
}
