package parquetfile

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
)

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	daily := []core.DailyRecord{
		{Date: core.NewDate(2011, 1, 1), TotalRentals: 985},
		{Date: core.NewDate(2011, 1, 2), TotalRentals: 801},
	}
	hourly := []core.HourlyRecord{
		{Date: core.NewDate(2011, 1, 1), Hour: 0, Season: "Winter", TotalRentals: 16},
		{Date: core.NewDate(2011, 1, 1), Hour: 1, Season: "Winter", TotalRentals: 40},
		{Date: core.NewDate(2011, 7, 1), Hour: 17, Season: "Summer", TotalRentals: 612},
	}
	require.NoError(t, Write(context.Background(), dir, daily, hourly))

	ds, err := dataset.Load(context.Background(), New(dir))
	require.NoError(t, err)
	assert.Equal(t, daily, ds.Filter(ds.Bounds()).Daily)

	got, err := New(dir).ReadHourly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hourly, got)
}

func TestLoadMissingParquetFile(t *testing.T) {
	_, err := dataset.Load(context.Background(), New(t.TempDir()))
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRejectsBadDate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeAll(context.Background(), New(dir).Path(dataset.DailyTable), []DailyRow{
		{Dteday: "2011-01-01", Cnt: 1},
		{Dteday: "not a date", Cnt: 2},
	}))

	_, err := New(dir).ReadDaily(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidDate)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadRejectsHourOutOfRange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeAll(context.Background(), New(dir).Path(dataset.HourlyTable), []HourlyRow{
		{Date: "2011-01-01", Hour: 24, Season: "Winter", TotalRentals: 3},
	}))

	_, err := New(dir).ReadHourly(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidHour)
	assert.Contains(t, err.Error(), "row 1")
}
