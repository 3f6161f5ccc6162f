package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
	applog "bikedash/internal/log"

	_ "modernc.org/sqlite"
)

// ErrNoImport is returned when the database has never been filled.
var ErrNoImport = errors.New("no import recorded")

// SQLiteRepository stores the rental tables in sqlite. It is both a
// dataset.Source for the dashboard and the target of the import command.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// Ensure interface conformance
var _ dataset.Source = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewSQLiteRepositoryWithDB(db), nil
}

// NewSQLiteRepositoryWithDB wraps an open, already migrated database.
func NewSQLiteRepositoryWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, queries: New(db)}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Name() string { return "sqlite" }

// ReadDaily implements dataset.Source
func (r *SQLiteRepository) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	rows, err := r.queries.ListDailyRentals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list daily rentals: %w", err)
	}
	out := make([]core.DailyRecord, 0, len(rows))
	for i, row := range rows {
		d, err := core.ParseDate(row.Day)
		if err != nil {
			return nil, &core.LoadError{Table: dataset.DailyTable, Row: i + 1, Err: err}
		}
		out = append(out, core.DailyRecord{Date: d, TotalRentals: int(row.TotalRentals)})
	}
	return out, nil
}

// ReadHourly implements dataset.Source
func (r *SQLiteRepository) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	rows, err := r.queries.ListHourlyRentals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hourly rentals: %w", err)
	}
	out := make([]core.HourlyRecord, 0, len(rows))
	for i, row := range rows {
		d, err := core.ParseDate(row.Day)
		if err != nil {
			return nil, &core.LoadError{Table: dataset.HourlyTable, Row: i + 1, Err: err}
		}
		out = append(out, core.HourlyRecord{
			Date:         d,
			Hour:         int(row.Hour),
			Season:       row.Season,
			TotalRentals: int(row.TotalRentals),
		})
	}
	return out, nil
}

// ReplaceAll swaps the stored tables for the given rows in one transaction
// and records the import run. On any error the previous contents are kept.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, source string, daily []core.DailyRecord, hourly []core.HourlyRecord) (ImportRun, error) {
	for i, h := range hourly {
		if err := h.Validate(); err != nil {
			return ImportRun{}, fmt.Errorf("hourly row %d: %w", i+1, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRun{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteDailyRentals(ctx); err != nil {
		return ImportRun{}, fmt.Errorf("clear daily rentals: %w", err)
	}
	if err := q.DeleteHourlyRentals(ctx); err != nil {
		return ImportRun{}, fmt.Errorf("clear hourly rentals: %w", err)
	}

	for i, d := range daily {
		if err := q.InsertDailyRental(ctx, DailyRental{
			Day:          d.Date.String(),
			TotalRentals: int64(d.TotalRentals),
		}); err != nil {
			return ImportRun{}, fmt.Errorf("insert daily row %d: %w", i+1, err)
		}
	}
	for i, h := range hourly {
		if err := q.InsertHourlyRental(ctx, HourlyRental{
			Day:          h.Date.String(),
			Hour:         int64(h.Hour),
			Season:       h.Season,
			TotalRentals: int64(h.TotalRentals),
		}); err != nil {
			return ImportRun{}, fmt.Errorf("insert hourly row %d: %w", i+1, err)
		}
	}

	run := ImportRun{
		ID:         uuid.NewString(),
		Source:     source,
		DailyRows:  int64(len(daily)),
		HourlyRows: int64(len(hourly)),
		ImportedAt: time.Now().UTC(),
	}
	if err := q.CreateImportRun(ctx, CreateImportRunParams(run)); err != nil {
		return ImportRun{}, fmt.Errorf("record import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportRun{}, fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Rentals imported into SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpImport,
		"import_id", run.ID,
		applog.FieldSource, source,
		applog.FieldRowsDaily, run.DailyRows,
		applog.FieldRowsHourly, run.HourlyRows)
	return run, nil
}

// LatestImport returns the most recent import run, or ErrNoImport.
func (r *SQLiteRepository) LatestImport(ctx context.Context) (ImportRun, error) {
	run, err := r.queries.LatestImportRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportRun{}, ErrNoImport
	}
	if err != nil {
		return ImportRun{}, fmt.Errorf("latest import run: %w", err)
	}
	return run, nil
}
