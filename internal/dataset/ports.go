// Package dataset loads the daily and hourly rental tables from a
// configured backend and builds the immutable session dataset.
package dataset

import (
	"context"

	"bikedash/internal/core"
)

// Fixed table names. File-based backends append an extension,
// the Sheets backend uses them as sheet titles.
const (
	DailyTable  = "day_update"
	HourlyTable = "hour_update"
)

// Source is the port for a backend holding the two base tables.
type Source interface {
	// Name identifies the backend in errors and logs, e.g. "csv".
	Name() string
	ReadDaily(ctx context.Context) ([]core.DailyRecord, error)
	ReadHourly(ctx context.Context) ([]core.HourlyRecord, error)
}
