package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
)

func TestDecodeDaily(t *testing.T) {
	rows := [][]string{
		{"\ufeffinstant", " DTEDAY ", "cnt"},
		{"1", "2011-01-01", "985"},
		{"2", "2011-01-02 00:00:00", "801.0"},
		{"", "", ""},
	}
	got, err := DecodeDaily(rows, DefaultSchema().Daily)
	require.NoError(t, err)

	assert.Equal(t, []core.DailyRecord{
		{Date: core.NewDate(2011, 1, 1), TotalRentals: 985},
		{Date: core.NewDate(2011, 1, 2), TotalRentals: 801},
	}, got)
}

func TestDecodeHourly(t *testing.T) {
	rows := [][]string{
		{"date", "hour", "season", "total_rentals", "weather"},
		{"2011-01-01", "0", "Winter", "16", "Clear"},
		{"2011-01-01", "1", "Winter", "40"},
	}
	got, err := DecodeHourly(rows, DefaultSchema().Hourly)
	require.NoError(t, err)

	assert.Equal(t, []core.HourlyRecord{
		{Date: core.NewDate(2011, 1, 1), Hour: 0, Season: "Winter", TotalRentals: 16},
		{Date: core.NewDate(2011, 1, 1), Hour: 1, Season: "Winter", TotalRentals: 40},
	}, got)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		decode  func() error
		table   string
		row     int
		wantErr error
	}{
		{
			name: "no header",
			decode: func() error {
				_, err := DecodeDaily(nil, DefaultSchema().Daily)
				return err
			},
			table:   DailyTable,
			wantErr: ErrEmptyTable,
		},
		{
			name: "missing column",
			decode: func() error {
				_, err := DecodeHourly([][]string{{"date", "hour", "cnt"}}, DefaultSchema().Hourly)
				return err
			},
			table:   HourlyTable,
			wantErr: ErrMissingColumn,
		},
		{
			name: "unparseable date",
			decode: func() error {
				_, err := DecodeDaily([][]string{{"dteday", "cnt"}, {"2011-01-01", "1"}, {"yesterday", "2"}}, DefaultSchema().Daily)
				return err
			},
			table:   DailyTable,
			row:     2,
			wantErr: core.ErrInvalidDate,
		},
		{
			name: "non numeric count",
			decode: func() error {
				_, err := DecodeHourly([][]string{{"date", "hour", "season", "total_rentals"}, {"2011-01-01", "3", "Winter", "many"}}, DefaultSchema().Hourly)
				return err
			},
			table:   HourlyTable,
			row:     1,
			wantErr: core.ErrInvalidCount,
		},
		{
			name: "hour out of range",
			decode: func() error {
				_, err := DecodeHourly([][]string{{"date", "hour", "season", "total_rentals"}, {"2011-01-01", "23", "Winter", "5"}, {"2011-01-01", "24", "Winter", "7"}}, DefaultSchema().Hourly)
				return err
			},
			table:   HourlyTable,
			row:     2,
			wantErr: core.ErrInvalidHour,
		},
		{
			name: "empty season",
			decode: func() error {
				_, err := DecodeHourly([][]string{{"date", "hour", "season", "total_rentals"}, {"2011-01-01", "7", " ", "5"}}, DefaultSchema().Hourly)
				return err
			},
			table:   HourlyTable,
			row:     1,
			wantErr: core.ErrEmptySeason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var le *core.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.table, le.Table)
			assert.Equal(t, tt.row, le.Row)
		})
	}
}

func TestDecodeMissingColumnsListsAll(t *testing.T) {
	_, err := DecodeHourly([][]string{{"when"}}, DefaultSchema().Hourly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date, hour, season, total_rentals")
}
