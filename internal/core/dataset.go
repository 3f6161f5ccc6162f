package core

import (
	"slices"
)

// Dataset holds the two base tables for the lifetime of the process.
// It is built once by the loader and never mutated afterwards.
type Dataset struct {
	daily  []DailyRecord
	hourly []HourlyRecord
	bounds DateRange
}

// View is the pair of tables restricted to one date range.
type View struct {
	Range  DateRange
	Daily  []DailyRecord
	Hourly []HourlyRecord
}

// NewDataset copies both tables and computes the data bounds from the daily
// table, falling back to the hourly table when the daily one is empty.
func NewDataset(daily []DailyRecord, hourly []HourlyRecord) *Dataset {
	ds := &Dataset{
		daily:  slices.Clone(daily),
		hourly: slices.Clone(hourly),
	}
	switch {
	case len(ds.daily) > 0:
		ds.bounds = spanOf(ds.daily, dailyDate)
	case len(ds.hourly) > 0:
		ds.bounds = spanOf(ds.hourly, hourlyDate)
	}
	return ds
}

// Bounds is [min date, max date] present in the data. Zero for an empty dataset.
func (ds *Dataset) Bounds() DateRange { return ds.bounds }

// DailyRows returns the number of daily records.
func (ds *Dataset) DailyRows() int { return len(ds.daily) }

// HourlyRows returns the number of hourly records.
func (ds *Dataset) HourlyRows() int { return len(ds.hourly) }

// Empty reports whether neither table holds rows.
func (ds *Dataset) Empty() bool { return len(ds.daily) == 0 && len(ds.hourly) == 0 }

// Filter restricts both tables to rng, each by its own date column.
func (ds *Dataset) Filter(rng DateRange) View {
	return View{
		Range:  rng,
		Daily:  FilterByDate(ds.daily, dailyDate, rng),
		Hourly: FilterByDate(ds.hourly, hourlyDate, rng),
	}
}

// FilterByDate returns a new slice with exactly the rows whose date lies in rng.
// An inverted range matches nothing.
func FilterByDate[T any](rows []T, dateOf func(T) Date, rng DateRange) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if rng.Contains(dateOf(row)) {
			out = append(out, row)
		}
	}
	return out
}

// IsEmpty reports whether both filtered tables are empty.
func (v View) IsEmpty() bool {
	return len(v.Daily) == 0 && len(v.Hourly) == 0
}

func dailyDate(r DailyRecord) Date   { return r.Date }
func hourlyDate(r HourlyRecord) Date { return r.Date }

func spanOf[T any](rows []T, dateOf func(T) Date) DateRange {
	span := DateRange{Start: dateOf(rows[0]), End: dateOf(rows[0])}
	for _, row := range rows[1:] {
		d := dateOf(row)
		if d.Compare(span.Start) < 0 {
			span.Start = d
		}
		if d.Compare(span.End) > 0 {
			span.End = d
		}
	}
	return span
}
