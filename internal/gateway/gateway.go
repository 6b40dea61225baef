// Package gateway owns the process-wide connection handle to the openLCA
// engine. The handle is created lazily on first use and cached; a failed
// dial is reported as disconnected and retried on the next request, with no
// other retry logic.
package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sankey/internal/config"
	"sankey/pkg/logger"
	"sankey/pkg/olca"
	"sankey/pkg/olca/olcaipc"
	"sankey/pkg/serrors"

	"go.uber.org/zap"
)

// DialFunc constructs a fresh engine client handle. Construction itself must
// not perform I/O; the gateway probes the handle before caching it.
type DialFunc func() olca.Client

// Options configure the connection to the engine's IPC server.
type Options struct {
	// Endpoint is the engine IPC URL, e.g. "http://localhost:8080".
	Endpoint string
	// RequestTimeout bounds a single IPC call.
	RequestTimeout time.Duration
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Endpoint:       cfg.Engine.Endpoint,
		RequestTimeout: cfg.Engine.RequestTimeout,
	}
}

// Gateway hands out the shared engine client. It is safe for concurrent use.
type Gateway struct {
	dial DialFunc

	mu     sync.Mutex
	client olca.Client // nil until the first successful probe
}

// New creates a Gateway that obtains client handles from dial.
func New(dial DialFunc) *Gateway {
	return &Gateway{dial: dial}
}

// NewIPC creates a Gateway backed by the JSON-RPC IPC client.
func NewIPC(opts Options) *Gateway {
	return New(func() olca.Client {
		return olcaipc.New(&http.Client{Timeout: opts.RequestTimeout}, opts.Endpoint)
	})
}

// Client returns the cached engine client, dialing and probing it on first
// use. When the engine cannot be reached it returns an unavailable kind and
// leaves the handle unset so the next call dials again.
func (g *Gateway) Client(ctx context.Context) (olca.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	cl := g.dial()
	// cheap probe; the engine answers descriptor listings from its index
	if _, err := cl.GetDescriptors(ctx, olca.ModelProductSystem); err != nil {
		logger.Error(ctx, "could not connect to openLCA engine", zap.Error(err))

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "openLCA not connected")
	}

	logger.Info(ctx, "connected to openLCA IPC")
	g.client = cl

	return g.client, nil
}

// Status reports whether the engine is reachable.
func (g *Gateway) Status(ctx context.Context) bool {
	_, err := g.Client(ctx)

	return err == nil
}
