package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type DailyRental struct {
	Day          string
	TotalRentals int64
}

type HourlyRental struct {
	Day          string
	Hour         int64
	Season       string
	TotalRentals int64
}

type ImportRun struct {
	ID         string
	Source     string
	DailyRows  int64
	HourlyRows int64
	ImportedAt time.Time
}

const listDailyRentals = `-- name: ListDailyRentals :many
SELECT day, total_rentals FROM daily_rentals
ORDER BY day, id
`

func (q *Queries) ListDailyRentals(ctx context.Context) ([]DailyRental, error) {
	rows, err := q.db.QueryContext(ctx, listDailyRentals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyRental
	for rows.Next() {
		var i DailyRental
		if err := rows.Scan(&i.Day, &i.TotalRentals); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listHourlyRentals = `-- name: ListHourlyRentals :many
SELECT day, hour, season, total_rentals FROM hourly_rentals
ORDER BY day, hour, id
`

func (q *Queries) ListHourlyRentals(ctx context.Context) ([]HourlyRental, error) {
	rows, err := q.db.QueryContext(ctx, listHourlyRentals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []HourlyRental
	for rows.Next() {
		var i HourlyRental
		if err := rows.Scan(&i.Day, &i.Hour, &i.Season, &i.TotalRentals); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDailyRentals = `-- name: DeleteDailyRentals :exec
DELETE FROM daily_rentals
`

func (q *Queries) DeleteDailyRentals(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteDailyRentals)
	return err
}

const deleteHourlyRentals = `-- name: DeleteHourlyRentals :exec
DELETE FROM hourly_rentals
`

func (q *Queries) DeleteHourlyRentals(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteHourlyRentals)
	return err
}

const insertDailyRental = `-- name: InsertDailyRental :exec
INSERT INTO daily_rentals (day, total_rentals) VALUES (?, ?)
`

func (q *Queries) InsertDailyRental(ctx context.Context, arg DailyRental) error {
	_, err := q.db.ExecContext(ctx, insertDailyRental, arg.Day, arg.TotalRentals)
	return err
}

const insertHourlyRental = `-- name: InsertHourlyRental :exec
INSERT INTO hourly_rentals (day, hour, season, total_rentals) VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertHourlyRental(ctx context.Context, arg HourlyRental) error {
	_, err := q.db.ExecContext(ctx, insertHourlyRental,
		arg.Day,
		arg.Hour,
		arg.Season,
		arg.TotalRentals,
	)
	return err
}

const createImportRun = `-- name: CreateImportRun :exec
INSERT INTO import_runs (id, source, daily_rows, hourly_rows, imported_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateImportRunParams struct {
	ID         string
	Source     string
	DailyRows  int64
	HourlyRows int64
	ImportedAt time.Time
}

func (q *Queries) CreateImportRun(ctx context.Context, arg CreateImportRunParams) error {
	_, err := q.db.ExecContext(ctx, createImportRun,
		arg.ID,
		arg.Source,
		arg.DailyRows,
		arg.HourlyRows,
		arg.ImportedAt,
	)
	return err
}

const latestImportRun = `-- name: LatestImportRun :one
SELECT id, source, daily_rows, hourly_rows, imported_at FROM import_runs
ORDER BY imported_at DESC, rowid DESC
LIMIT 1
`

func (q *Queries) LatestImportRun(ctx context.Context) (ImportRun, error) {
	row := q.db.QueryRowContext(ctx, latestImportRun)
	var i ImportRun
	err := row.Scan(
		&i.ID,
		&i.Source,
		&i.DailyRows,
		&i.HourlyRows,
		&i.ImportedAt,
	)
	return i, err
}
