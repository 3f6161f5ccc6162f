package dataset

import (
	"errors"
	"fmt"
	"strings"

	"bikedash/internal/core"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyTable    = errors.New("table has no header row")
)

// header maps a trimmed, case-insensitive column name to its index.
type header map[string]int

func newHeader(cells []string) header {
	h := make(header, len(cells))
	for i, c := range cells {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// require resolves every named column, reporting all missing ones at once.
func (h header) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, n := range names {
		j, ok := h[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// DecodeDaily converts a text table (header row first) into daily records.
func DecodeDaily(rows [][]string, cols DailyColumns) ([]core.DailyRecord, error) {
	if len(rows) == 0 {
		return nil, &core.LoadError{Table: DailyTable, Err: ErrEmptyTable}
	}
	idx, err := newHeader(rows[0]).require(cols.Date, cols.Total)
	if err != nil {
		return nil, &core.LoadError{Table: DailyTable, Err: err}
	}

	out := make([]core.DailyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		d, err := core.ParseDate(cell(row, idx[0]))
		if err != nil {
			return nil, rowError(DailyTable, i+1, cols.Date, err)
		}
		total, err := core.ParseCount(cell(row, idx[1]))
		if err != nil {
			return nil, rowError(DailyTable, i+1, cols.Total, err)
		}
		out = append(out, core.DailyRecord{Date: d, TotalRentals: total})
	}
	return out, nil
}

// DecodeHourly converts a text table (header row first) into hourly records.
// Every row must pass core.HourlyRecord.Validate, the same check the sqlite import applies.
func DecodeHourly(rows [][]string, cols HourlyColumns) ([]core.HourlyRecord, error) {
	if len(rows) == 0 {
		return nil, &core.LoadError{Table: HourlyTable, Err: ErrEmptyTable}
	}
	idx, err := newHeader(rows[0]).require(cols.Date, cols.Hour, cols.Season, cols.Total)
	if err != nil {
		return nil, &core.LoadError{Table: HourlyTable, Err: err}
	}

	out := make([]core.HourlyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		d, err := core.ParseDate(cell(row, idx[0]))
		if err != nil {
			return nil, rowError(HourlyTable, i+1, cols.Date, err)
		}
		hour, err := core.ParseCount(cell(row, idx[1]))
		if err != nil {
			return nil, rowError(HourlyTable, i+1, cols.Hour, err)
		}
		total, err := core.ParseCount(cell(row, idx[3]))
		if err != nil {
			return nil, rowError(HourlyTable, i+1, cols.Total, err)
		}
		rec := core.HourlyRecord{
			Date:         d,
			Hour:         hour,
			Season:       cell(row, idx[2]),
			TotalRentals: total,
		}
		if err := rec.Validate(); err != nil {
			return nil, &core.LoadError{Table: HourlyTable, Row: i + 1, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func rowError(table string, row int, column string, err error) error {
	return &core.LoadError{Table: table, Row: row, Err: fmt.Errorf("column %s: %w", column, err)}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
