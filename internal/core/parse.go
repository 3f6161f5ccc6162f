// Package core provides the dashboard domain: records, ranges, rental
// categories and the summary tables derived from them.
//
// This file contains the coercion helpers used when reading text sources.
package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	dateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseDate coerces a date-like string to a Date.
//
// Timestamps are truncated to their calendar day. Examples:
//
//	ParseDate("2011-01-01")          -> 2011-01-01
//	ParseDate("2011-01-01 13:00:00") -> 2011-01-01
//	ParseDate("01/31/2011")          -> 2011-01-31
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// ParseCount converts a non-negative integer count from text.
//
// Upstream exports sometimes write integral counts as floats ("985.0"), so a
// fractional part made only of zeros is accepted. Anything else is rejected.
//
//	ParseCount("985")   -> 985, nil
//	ParseCount("985.0") -> 985, nil
//	ParseCount("98.5")  -> 0, ErrInvalidCount
//	ParseCount("-1")    -> 0, ErrInvalidCount
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidCount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidCount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		return 0, ErrInvalidCount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidCount
		}
	}
	for _, r := range fracPart {
		if r != '0' {
			return 0, ErrInvalidCount
		}
	}
	n, err := strconv.Atoi(intPart)
	if err != nil {
		return 0, ErrInvalidCount
	}
	return n, nil
}
