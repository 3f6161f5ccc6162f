package cli

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/config"
	"bikedash/internal/core"
	"bikedash/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitDatasetLoadsCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "day_update.csv"),
		[]byte("dteday,cnt\n2011-01-01,985\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hour_update.csv"),
		[]byte("date,hour,season,total_rentals\n2011-01-01,8,Winter,40\n"), 0o644))

	ds, err := InitDataset(context.Background(), quietLogger(), &config.Config{DataBackend: "csv", DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.DailyRows())
	assert.Equal(t, 1, ds.HourlyRows())
}

func TestInitDatasetReturnsLoadError(t *testing.T) {
	_, err := InitDataset(context.Background(), quietLogger(),
		&config.Config{DataBackend: "csv", DataDir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
}

func TestInitDatasetReturnsSQLiteLoadError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bikedash.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO daily_rentals (day, total_rentals) VALUES ('yesterday', 1)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = InitDataset(context.Background(), quietLogger(), &config.Config{DataBackend: "sqlite", SQLiteDBPath: dbPath})
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
	assert.Contains(t, err.Error(), "sqlite")
}

func TestInitDatasetRejectsUnknownBackend(t *testing.T) {
	_, err := InitDataset(context.Background(), quietLogger(), &config.Config{DataBackend: "ftp"})
	require.Error(t, err)
	assert.False(t, core.IsLoadError(err))
}
