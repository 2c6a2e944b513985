package engine

import (
	"io"
	"log/slog"

	"github.com/oxtoacart/bpool"

	"github.com/goliatone/go-tie/pkg/marker"
)

var defaultPool = bpool.NewBufferPool(64)

type Option func(*config)

type config struct {
	logger      *slog.Logger
	markerStart int
	pool        *bpool.BufferPool
}

// WithLogger routes debug records about registration, compilation and
// keep-position replacement to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMarkerStart sets the first counter value of the template's marker
// generator. Child templates inherit it.
func WithMarkerStart(start int) Option {
	return func(cfg *config) {
		cfg.markerStart = start
	}
}

// WithBufferPool shares a buffer pool for render output. Child templates
// inherit it.
func WithBufferPool(pool *bpool.BufferPool) Option {
	return func(cfg *config) {
		if pool != nil {
			cfg.pool = pool
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{
		markerStart: marker.DefaultStart,
		pool:        defaultPool,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
