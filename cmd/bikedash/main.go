package main

import (
	"context"
	"os"

	"bikedash/internal/cli"
	"bikedash/internal/core"
	apphttp "bikedash/internal/http"
	applog "bikedash/internal/log"
	"bikedash/internal/metrics"
	"bikedash/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger("info", "text"))
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	appLogger := applog.New(applog.Config{Handler: logger.Handler(), Component: applog.ComponentApp})

	logger.Info("Starting bikedash",
		applog.FieldOperation, applog.OpStartup,
		"backend", cfg.DataBackend,
		"port", cfg.Port)

	// Loaded once; every request filters this same immutable dataset.
	ds, err := cli.InitDataset(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err,
			"backend", cfg.DataBackend,
			"load_error", core.IsLoadError(err))
		os.Exit(1)
	}
	dashboard := services.NewDashboardService(ds)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		HeaderImagePath:    cfg.HeaderImagePath,
		Logger:             appLogger,
		Metrics:            metrics.New(),
	}, dashboard)
	if err != nil {
		logger.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
