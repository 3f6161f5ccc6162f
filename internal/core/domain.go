package core

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date stored as UTC midnight.
	Date struct {
		time.Time
	}

	// DailyRecord is one row of the daily table.
	DailyRecord struct {
		Date         Date
		TotalRentals int
	}

	// HourlyRecord is one row of the hourly table, keyed by (Date, Hour).
	HourlyRecord struct {
		Date         Date
		Hour         int // 0-23
		Season       string
		TotalRentals int
	}

	// DateRange is the closed interval [Start, End].
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidHour  = errors.New("invalid hour")
	ErrInvalidCount = errors.New("invalid rental count")
	ErrEmptySeason  = errors.New("empty season")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date, keeping the wall-clock day of t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// MonthStart returns the first day of the date's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (r HourlyRecord) Validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, r.Hour)
	}
	if r.TotalRentals < 0 {
		return ErrInvalidCount
	}
	if r.Season == "" {
		return ErrEmptySeason
	}
	return nil
}

// RentalCategory derives the record's bucket from its total.
func (r HourlyRecord) RentalCategory() RentalCategory {
	return Categorize(r.TotalRentals)
}

// NewDateRange builds a range; it does not reorder inverted bounds.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Contains reports whether d lies within the closed interval.
func (r DateRange) Contains(d Date) bool {
	return d.Compare(r.Start) >= 0 && d.Compare(r.End) <= 0
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
