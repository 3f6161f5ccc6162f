// Package csvfile reads the rental tables from CSV files in a directory.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
)

const Ext = ".csv"

type Source struct {
	dir    string
	schema dataset.Schema
}

// Ensure interface conformance
var _ dataset.Source = (*Source)(nil)

// New returns a source reading day_update.csv and hour_update.csv from dir.
func New(dir string, schema dataset.Schema) *Source {
	return &Source{dir: dir, schema: schema}
}

func (s *Source) Name() string { return "csv" }

// Path returns the file backing a table.
func (s *Source) Path(table string) string {
	return filepath.Join(s.dir, table+Ext)
}

func (s *Source) ReadDaily(ctx context.Context) ([]core.DailyRecord, error) {
	rows, err := s.readAll(ctx, dataset.DailyTable)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeDaily(rows, s.schema.Daily)
}

func (s *Source) ReadHourly(ctx context.Context) ([]core.HourlyRecord, error) {
	rows, err := s.readAll(ctx, dataset.HourlyTable)
	if err != nil {
		return nil, err
	}
	return dataset.DecodeHourly(rows, s.schema.Hourly)
}

func (s *Source) readAll(ctx context.Context, table string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(table)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
