package dataset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bikedash/internal/core"
	applog "bikedash/internal/log"
)

// Load reads both tables from src concurrently and builds the session dataset.
// Any failure is returned as a *core.LoadError naming the source and table;
// the first failure cancels the other read.
func Load(ctx context.Context, src Source) (*core.Dataset, error) {
	start := time.Now()
	daily, hourly, err := ReadAll(ctx, src)
	if err != nil {
		return nil, err
	}

	ds := core.NewDataset(daily, hourly)
	bounds := ds.Bounds()
	slog.InfoContext(ctx, "Dataset loaded",
		applog.FieldComponent, applog.ComponentDataset,
		applog.FieldOperation, applog.OpLoad,
		applog.FieldSource, src.Name(),
		applog.FieldRowsDaily, ds.DailyRows(),
		applog.FieldRowsHourly, ds.HourlyRows(),
		applog.FieldRangeStart, bounds.Start.String(),
		applog.FieldRangeEnd, bounds.End.String(),
		applog.FieldDuration, time.Since(start).Milliseconds())
	if ds.Empty() {
		slog.WarnContext(ctx, "Dataset is empty, every panel will show no data",
			applog.FieldComponent, applog.ComponentDataset,
			applog.FieldSource, src.Name())
	}
	return ds, nil
}

// ReadAll reads both tables from src concurrently, returning the raw rows.
func ReadAll(ctx context.Context, src Source) ([]core.DailyRecord, []core.HourlyRecord, error) {
	var (
		daily  []core.DailyRecord
		hourly []core.HourlyRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := src.ReadDaily(gctx)
		if err != nil {
			return asLoadError(src.Name(), DailyTable, err)
		}
		daily = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.ReadHourly(gctx)
		if err != nil {
			return asLoadError(src.Name(), HourlyTable, err)
		}
		hourly = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return daily, hourly, nil
}

// asLoadError tags err with the source and table, keeping any row detail.
func asLoadError(source, table string, err error) error {
	var le *core.LoadError
	if errors.As(err, &le) {
		tagged := *le
		if tagged.Source == "" {
			tagged.Source = source
		}
		if tagged.Table == "" {
			tagged.Table = table
		}
		return &tagged
	}
	return &core.LoadError{Source: source, Table: table, Err: err}
}
