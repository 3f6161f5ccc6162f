package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFromCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "day_update.csv", ",dteday,cnt\n0,2011-01-01,985\n1,2011-01-02,801\n")
	writeFile(t, dir, "hour_update.csv", "date,hour,season,total_rentals\n"+
		"2011-01-01,0,Winter,16\n"+
		"2011-01-01,1,Winter,40\n"+
		"2011-01-02,0,Winter,17\n")

	ds, err := dataset.Load(context.Background(), New(dir, dataset.DefaultSchema()))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.DailyRows())
	assert.Equal(t, 3, ds.HourlyRows())
	assert.Equal(t, core.NewDateRange(core.NewDate(2011, 1, 1), core.NewDate(2011, 1, 2)), ds.Bounds())
}

func TestLoadFromCSVMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "day_update.csv", "dteday,cnt\n2011-01-01,985\n")

	_, err := dataset.Load(context.Background(), New(dir, dataset.DefaultSchema()))
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "hour_update")
}

func TestLoadFromCSVCustomSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "day_update.csv", "day,rentals\n2012-12-31,2729\n")
	writeFile(t, dir, "hour_update.csv", "date,hour,season,total_rentals\n2012-12-31,23,Winter,49\n")

	schema := dataset.DefaultSchema()
	schema.Daily = dataset.DailyColumns{Date: "day", Total: "rentals"}

	src := New(dir, schema)
	daily, err := src.ReadDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.DailyRecord{{Date: core.NewDate(2012, 12, 31), TotalRentals: 2729}}, daily)
}

func TestReadRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(t.TempDir(), dataset.DefaultSchema()).ReadDaily(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
