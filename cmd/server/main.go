package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Kimen6931/BlockLocker/internal/api"
	"github.com/Kimen6931/BlockLocker/internal/config"
	"github.com/Kimen6931/BlockLocker/internal/dependencies/schedule"
	"github.com/Kimen6931/BlockLocker/internal/factory"
	"github.com/Kimen6931/BlockLocker/internal/observe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics are exported through the default Prometheus registry
	mp, shutdownMetrics, err := observe.InitProvider()
	if err != nil {
		return err
	}
	defer func() { _ = shutdownMetrics(context.Background()) }()

	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		return err
	}

	app, err := factory.New(factory.ConfigFrom(cfg, logger, metrics))
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		ProtectionService: app.ProtectionService,
		Resolver:          app.Resolver,
		StoragePinger:     app.StoragePinger,
		MainLoop:          app.Loop,
		Events:            app.Events,
		MetricsHandler:    promhttp.Handler(),
	})
	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.HTTPAddr
	server := api.NewServer(router, serverConfig, logger)

	g, gctx := errgroup.WithContext(ctx)

	// The resolver drains off the main loop on its own ticker
	ticker := schedule.New(gctx, app.Clock, logger)
	app.Resolver.Start(ticker, cfg.ResolveInterval())

	g.Go(func() error { return app.Loop.Run(gctx) })
	g.Go(func() error { return app.Events.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		return nil
	})

	err = g.Wait()
	ticker.Wait()
	return err
}
