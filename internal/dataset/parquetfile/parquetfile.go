// Package parquetfile reads and writes the rental tables as Parquet files.
// Columns use the published dataset names; dates are stored as UTF8 text.
package parquetfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
)

const (
	Ext = ".parquet"

	// parallelism passed to the parquet-go reader and writer.
	np = 1
)

// DailyRow is the on-disk layout of the daily table.
type DailyRow struct {
	Dteday string `parquet:"name=dteday, type=BYTE_ARRAY, convertedtype=UTF8"`
	Cnt    int64  `parquet:"name=cnt, type=INT64"`
}

// HourlyRow is the on-disk layout of the hourly table.
type HourlyRow struct {
	Date         string `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour         int32  `parquet:"name=hour, type=INT32"`
	Season       string `parquet:"name=season, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalRentals int64  `parquet:"name=total_rentals, type=INT64"`
}

type Source struct {
	dir string
}

// Ensure interface conformance
var _ dataset.Source = (*Source)(nil)

// New returns a source reading day_update.parquet and hour_update.parquet from dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) Name() string { return "parquet" }

// Path returns the file backing a table.
func (s *Source) Path(table string) string {
	return filepath.Join(s.dir, table+Ext)
}

func (s *Source) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	rows, err := readAll[DailyRow](ctx, s.Path(dataset.DailyTable))
	if err != nil {
		return nil, err
	}
	out := make([]core.DailyRecord, 0, len(rows))
	for i, r := range rows {
		d, err := core.ParseDate(r.Dteday)
		if err != nil {
			return nil, &core.LoadError{Table: dataset.DailyTable, Row: i + 1, Err: fmt.Errorf("column dteday: %w", err)}
		}
		if r.Cnt < 0 {
			return nil, &core.LoadError{Table: dataset.DailyTable, Row: i + 1, Err: fmt.Errorf("column cnt: %w", core.ErrInvalidCount)}
		}
		out = append(out, core.DailyRecord{Date: d, TotalRentals: int(r.Cnt)})
	}
	return out, nil
}

func (s *Source) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	rows, err := readAll[HourlyRow](ctx, s.Path(dataset.HourlyTable))
	if err != nil {
		return nil, err
	}
	out := make([]core.HourlyRecord, 0, len(rows))
	for i, r := range rows {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, &core.LoadError{Table: dataset.HourlyTable, Row: i + 1, Err: fmt.Errorf("column date: %w", err)}
		}
		rec := core.HourlyRecord{
			Date:         d,
			Hour:         int(r.Hour),
			Season:       r.Season,
			TotalRentals: int(r.TotalRentals),
		}
		if err := rec.Validate(); err != nil {
			return nil, &core.LoadError{Table: dataset.HourlyTable, Row: i + 1, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func readAll[T any](ctx context.Context, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), np)
	if err != nil {
		return nil, fmt.Errorf("read %s footer: %w", path, err)
	}
	defer pr.ReadStop()

	rows := make([]T, int(pr.GetNumRows()))
	if len(rows) == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Write stores both tables under dir, replacing existing files.
func Write(ctx context.Context, dir string, daily []core.DailyRecord, hourly []core.HourlyRecord) error {
	dailyRows := make([]DailyRow, len(daily))
	for i, r := range daily {
		dailyRows[i] = DailyRow{Dteday: r.Date.String(), Cnt: int64(r.TotalRentals)}
	}
	hourlyRows := make([]HourlyRow, len(hourly))
	for i, r := range hourly {
		hourlyRows[i] = HourlyRow{
			Date:         r.Date.String(),
			Hour:         int32(r.Hour),
			Season:       r.Season,
			TotalRentals: int64(r.TotalRentals),
		}
	}

	if err := writeAll(ctx, filepath.Join(dir, dataset.DailyTable+Ext), dailyRows); err != nil {
		return err
	}
	return writeAll(ctx, filepath.Join(dir, dataset.HourlyTable+Ext), hourlyRows)
}

func writeAll[T any](ctx context.Context, path string, rows []T) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(T), np)
	if err != nil {
		return fmt.Errorf("create parquet writer for %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pw.Write(r); err != nil {
			return fmt.Errorf("write record to %s: %w", path, err)
		}
	}

	// WriteStop can panic on corrupt input.
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("stop parquet writer for %s: %v", path, r)
			}
		}()
		if serr := pw.WriteStop(); serr != nil {
			err = fmt.Errorf("stop parquet writer for %s: %w", path, serr)
		}
	}()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Parquet table written", "path", path, "rows", len(rows))
	return nil
}
