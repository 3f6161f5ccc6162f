package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"bikedash/internal/backend"
	"bikedash/internal/cli"
	"bikedash/internal/config"
	"bikedash/internal/dataset"
	"bikedash/internal/dataset/parquetfile"
	applog "bikedash/internal/log"
	"bikedash/internal/storage"
)

const (
	targetSQLite  = "sqlite"
	targetParquet = "parquet"
)

type importOptions struct {
	From       string
	DataDir    string
	SchemaFile string
	To         string
	OutDir     string
	DBPath     string
	LogLevel   string
}

// resolve applies the flags over the environment configuration.
func (o importOptions) resolve() (*config.Config, error) {
	cfg := config.Load()
	cfg.DataBackend = o.From
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.SchemaFile != "" {
		cfg.DatasetSchemaFile = o.SchemaFile
	}
	if o.DBPath != "" {
		cfg.SQLiteDBPath = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	switch o.To {
	case targetSQLite, targetParquet:
	default:
		return nil, fmt.Errorf("unknown target %q: expected %s or %s", o.To, targetSQLite, targetParquet)
	}
	if o.From == o.To {
		return nil, fmt.Errorf("source and target are both %s", o.To)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runImport(ctx context.Context, opts importOptions, out io.Writer) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	base := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	logger := base.With(applog.FieldComponent, applog.ComponentImport, applog.FieldOperation, applog.OpImport)
	start := time.Now()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(base).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Source cleanup failed", applog.FieldError, err)
			}
		}()
	}

	daily, hourly, err := dataset.ReadAll(ctx, res.Source)
	if err != nil {
		logger.Error("Failed to read source", applog.FieldError, err, applog.FieldSource, res.Source.Name())
		return err
	}

	switch opts.To {
	case targetParquet:
		dir := opts.OutDir
		if dir == "" {
			dir = cfg.DataDir
		}
		if err := parquetfile.Write(ctx, dir, daily, hourly); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		fmt.Fprintf(out, "wrote %d daily and %d hourly rows to %s\n", len(daily), len(hourly), dir)

	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer repo.Close()

		run, err := repo.ReplaceAll(ctx, res.Source.Name(), daily, hourly)
		if err != nil {
			logger.Error("Import failed, previous data kept", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			return err
		}
		fmt.Fprintf(out, "import %s: %d daily and %d hourly rows from %s into %s\n",
			run.ID, run.DailyRows, run.HourlyRows, run.Source, cfg.SQLiteDBPath)
	}

	logger.Info("Import finished",
		slog.String(applog.FieldSource, res.Source.Name()),
		slog.String("target", opts.To),
		slog.Int(applog.FieldRowsDaily, len(daily)),
		slog.Int(applog.FieldRowsHourly, len(hourly)),
		slog.Int64(applog.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}

func runStatus(ctx context.Context, opts importOptions, out io.Writer) error {
	cfg := config.Load()
	if opts.DBPath != "" {
		cfg.SQLiteDBPath = opts.DBPath
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	run, err := repo.LatestImport(ctx)
	if errors.Is(err, storage.ErrNoImport) {
		fmt.Fprintf(out, "no import recorded in %s\n", cfg.SQLiteDBPath)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "last import %s at %s: %d daily and %d hourly rows from %s\n",
		run.ID, run.ImportedAt.Format(time.RFC3339), run.DailyRows, run.HourlyRows, run.Source)
	return nil
}
