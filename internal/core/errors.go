package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData signals an empty filtered table. It degrades one chart, never the page.
	ErrNoData = errors.New("no data for selected range")

	// ErrInvalidRange is reported when the start date is after the end date.
	ErrInvalidRange = errors.New("start date after end date")
)

// LoadError reports a dataset that could not be loaded. It is fatal at startup.
type LoadError struct {
	Source string // backend name, e.g. "csv"
	Table  string // "daily" or "hourly"
	Row    int    // 1-based data row, 0 when the whole table failed
	Err    error
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("load %s table from %s (row %d): %v", e.Table, e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("load %s table from %s: %v", e.Table, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
