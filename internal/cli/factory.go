package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/orxa"
	"github.com/aretw0/orxa/internal/config"
	"github.com/aretw0/orxa/pkg/adapters/file"
	"github.com/aretw0/orxa/pkg/adapters/opencode"
	"github.com/aretw0/orxa/pkg/adapters/redis"
	"github.com/aretw0/orxa/pkg/observability"
)

// Options holds the flags shared by the commands that build a Governor.
type Options struct {
	ConfigPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// StateDir keeps drift state in files when no Redis is configured.
	StateDir string

	// HostURL points at an opencode-compatible server. Empty disables delegation.
	HostURL   string
	Directory string

	Metrics bool
}

// Runtime is a Governor plus the resources the command must release.
type Runtime struct {
	Governor *orxa.Governor
	Metrics  *observability.Metrics
	closers  []func() error
}

// Close releases the external connections held by the runtime.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRuntime wires a Governor from CLI options.
func NewRuntime(opts Options, logger *slog.Logger) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	govOpts := []orxa.Option{
		orxa.WithConfig(cfg),
		orxa.WithLogger(logger),
		orxa.WithSink(observability.LogSink(logger)),
		orxa.WithDirectory(opts.Directory),
	}

	if opts.RedisAddr != "" {
		store := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, redis.WithTTL(opts.RedisTTL))
		rt.closers = append(rt.closers, store.Close)
		govOpts = append(govOpts,
			orxa.WithStore(store),
			orxa.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)),
		)
		logger.Debug("Using Redis drift store", "addr", opts.RedisAddr)
	} else if opts.StateDir != "" {
		govOpts = append(govOpts, orxa.WithStore(file.New(opts.StateDir)))
		logger.Debug("Using file drift store", "dir", opts.StateDir)
	}

	if opts.HostURL != "" {
		host, err := opencode.New(opts.HostURL, opencode.WithLogger(logger))
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("invalid host url: %w", err)
		}
		govOpts = append(govOpts, orxa.WithHost(host))
	}

	if opts.Metrics {
		rt.Metrics = observability.NewMetrics()
		govOpts = append(govOpts, orxa.WithMetrics(rt.Metrics))
	}

	gov, err := orxa.New(govOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Governor = gov
	return rt, nil
}
