package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/property-kit-go/defaults"
	"github.com/AntonStoeckl/property-kit-go/defaults/postgresengine"
	"github.com/AntonStoeckl/property-kit-go/example/preferences/config"
	"github.com/AntonStoeckl/property-kit-go/oteladapters"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
)

// Config holds the command-line configuration.
type Config struct {
	Backend              string
	Suite                string
	ObservabilityEnabled bool
	Debug                bool
}

func parseFlags(args []string) (Config, error) {
	flags := flag.NewFlagSet("preferences", flag.ContinueOnError)

	var (
		backend       = flags.String("backend", backendMemory, "Settings backend: memory or postgres")
		suite         = flags.String("suite", defaults.DefaultSuite, "Settings suite")
		observability = flags.Bool("observability-enabled", false, "Export spans and metrics to stdout")
		debug         = flags.Bool("debug", false, "Log at debug level")
	)

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if *backend != backendMemory && *backend != backendPostgres {
		return Config{}, fmt.Errorf("unknown backend %q", *backend)
	}

	return Config{
		Backend:              *backend,
		Suite:                *suite,
		ObservabilityEnabled: *observability,
		Debug:                *debug,
	}, nil
}

// newStoreOptions wires logging, and OpenTelemetry when enabled. The returned func shuts the providers down.
func (c Config) newStoreOptions(ctx context.Context, out io.Writer) ([]defaults.Option, func() error, error) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	options := []defaults.Option{defaults.WithLogger(logger)}

	if !c.ObservabilityEnabled {
		return options, func() error { return nil }, nil
	}

	providers, err := config.NewObservabilityConfig(ctx, out)
	if err != nil {
		return nil, nil, err
	}

	options = append(options,
		defaults.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(config.ServiceName))),
		defaults.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(config.ServiceName))),
		defaults.WithContextualLogger(oteladapters.NewSlogBridgeLogger(config.ServiceName)),
	)

	return options, providers.Shutdown, nil
}

// newStore creates the Store over the configured backend. The returned func releases the backend.
func (c Config) newStore(ctx context.Context, options []defaults.Option) (*defaults.Store, func(), error) {
	if c.Backend == backendMemory {
		store, err := defaults.NewSuiteStore(c.Suite, options...)
		return store, func() {}, err
	}

	dbConfig, err := config.PostgresPGXPoolConfig()
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	backend, err := postgresengine.NewBackendFromPGXPool(pool, postgresengine.WithSuite(c.Suite))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	if err = backend.CreateTable(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	store, err := defaults.NewStore(backend, options...)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	return store, pool.Close, nil
}
