package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		in   int
		want RentalCategory
	}{
		{0, Low},
		{99, Low},
		{100, Medium},
		{250, Medium},
		{300, Medium},
		{301, High},
		{977, High},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.in), "Categorize(%d)", tc.in)
	}
	assert.Equal(t, "Medium", Categorize(100).String())
}

func TestHourlyRecordValidate(t *testing.T) {
	good := HourlyRecord{Date: NewDate(2011, 1, 1), Hour: 23, Season: "Spring", TotalRentals: 16}
	require.NoError(t, good.Validate())

	bads := []HourlyRecord{
		{Date: NewDate(2011, 1, 1), Hour: 24, Season: "Spring", TotalRentals: 1},
		{Date: NewDate(2011, 1, 1), Hour: -1, Season: "Spring", TotalRentals: 1},
		{Date: NewDate(2011, 1, 1), Hour: 3, Season: "Spring", TotalRentals: -4},
		{Date: NewDate(2011, 1, 1), Hour: 3, Season: "", TotalRentals: 4},
	}
	for i, r := range bads {
		assert.Error(t, r.Validate(), "case %d", i)
	}
}

func TestDateRange(t *testing.T) {
	rng := NewDateRange(NewDate(2021, 1, 1), NewDate(2021, 1, 31))
	assert.True(t, rng.Valid())
	assert.True(t, rng.Contains(NewDate(2021, 1, 1)))
	assert.True(t, rng.Contains(NewDate(2021, 1, 31)))
	assert.False(t, rng.Contains(NewDate(2021, 2, 1)))
	assert.Equal(t, "2021-01-01..2021-01-31", rng.String())

	inverted := NewDateRange(NewDate(2021, 2, 1), NewDate(2021, 1, 1))
	assert.False(t, inverted.Valid())
	assert.False(t, inverted.Contains(NewDate(2021, 1, 15)))
}

func TestDateMonthStartAndDateOf(t *testing.T) {
	assert.Equal(t, NewDate(2012, 2, 1), NewDate(2012, 2, 29).MonthStart())

	loc := time.FixedZone("UTC+7", 7*3600)
	assert.Equal(t, NewDate(2012, 3, 4), DateOf(time.Date(2012, 3, 4, 23, 30, 0, 0, loc)))
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2011-01-01", NewDate(2011, 1, 1), true},
		{" 2011-01-01 ", NewDate(2011, 1, 1), true},
		{"2011-01-01 13:00:00", NewDate(2011, 1, 1), true},
		{"2011-01-01T13:00:00Z", NewDate(2011, 1, 1), true},
		{"2011/12/31", NewDate(2011, 12, 31), true},
		{"01/31/2011", NewDate(2011, 1, 31), true},
		{"", Date{}, false},
		{"yesterday", Date{}, false},
		{"2011-13-01", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidDate, "%q", tc.in)
			continue
		}
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.want, got, "%q", tc.in)
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in  string
		out int
		ok  bool
	}{
		{"0", 0, true},
		{"985", 985, true},
		{"985.0", 985, true},
		{" 16 ", 16, true},
		{"98.5", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{".0", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCount(tc.in)
		if tc.ok {
			require.NoError(t, err, "%q", tc.in)
			assert.Equal(t, tc.out, got, "%q", tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidCount, "%q", tc.in)
		}
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	err := &LoadError{Source: "csv", Table: "daily", Row: 3, Err: ErrInvalidDate}
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "row 3")
	assert.False(t, IsLoadError(ErrNoData))
}
