// Command server runs the kaffee coffee machine service.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (-config flag, KAFFEE_CONFIG env, ./config.yaml, /etc/kaffee/config.yaml),
// then KAFFEE_* environment overrides. See pkg/config for the full set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/kaffee/pkg/config"
	"github.com/rhuss/kaffee/pkg/machine"
	"github.com/rhuss/kaffee/pkg/observability"
	"github.com/rhuss/kaffee/pkg/storage"
	"github.com/rhuss/kaffee/pkg/storage/file"
	"github.com/rhuss/kaffee/pkg/storage/memory"
	"github.com/rhuss/kaffee/pkg/storage/postgres"
	transporthttp "github.com/rhuss/kaffee/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	store, err := buildStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	eng, err := machine.New(store, machine.DefaultCatalog(), machine.Config{
		WaterCapacityML: cfg.Machine.WaterCapacityML,
		CoffeeCapacityG: cfg.Machine.CoffeeCapacityG,
	})
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
		transporthttp.WithHealthCheck(store),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path, promhttp.Handler()))
	}

	logger.Info("starting coffee machine",
		slog.Int("port", cfg.Server.Port),
		slog.String("storage", cfg.Storage.Type),
		slog.Int("water_capacity_ml", cfg.Machine.WaterCapacityML),
		slog.Int("coffee_capacity_g", cfg.Machine.CoffeeCapacityG),
	)

	srv := transporthttp.NewServer(eng, opts...)
	return srv.ListenAndServe()
}

// buildStore creates the configured storage backend, wrapped with
// metrics instrumentation.
func buildStore(ctx context.Context, cfg *config.Config) (storage.StateStore, error) {
	var (
		store storage.StateStore
		err   error
	)
	switch cfg.Storage.Type {
	case "file":
		store, err = file.New(cfg.Storage.File.Path)
	case "postgres":
		store, err = postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	case "memory":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	return observability.InstrumentStore(store), nil
}
