package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
	"bikedash/internal/dataset"
)

func sampleTables() ([]core.DailyRecord, []core.HourlyRecord) {
	daily := []core.DailyRecord{
		{Date: core.NewDate(2011, 1, 1), TotalRentals: 985},
		{Date: core.NewDate(2011, 1, 2), TotalRentals: 801},
	}
	hourly := []core.HourlyRecord{
		{Date: core.NewDate(2011, 1, 1), Hour: 0, Season: "Winter", TotalRentals: 16},
		{Date: core.NewDate(2011, 1, 1), Hour: 1, Season: "Winter", TotalRentals: 40},
		{Date: core.NewDate(2011, 1, 2), Hour: 0, Season: "Winter", TotalRentals: 17},
	}
	return daily, hourly
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "rentals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	_, err = repo.LatestImport(ctx)
	assert.ErrorIs(t, err, ErrNoImport)

	daily, hourly := sampleTables()
	run, err := repo.ReplaceAll(ctx, "csv", daily, hourly)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, int64(2), run.DailyRows)
	assert.Equal(t, int64(3), run.HourlyRows)

	ds, err := dataset.Load(ctx, repo)
	require.NoError(t, err)
	view := ds.Filter(ds.Bounds())
	assert.Equal(t, daily, view.Daily)
	assert.Equal(t, hourly, view.Hourly)

	second, err := repo.ReplaceAll(ctx, "parquet", daily[:1], hourly[:1])
	require.NoError(t, err)
	latest, err := repo.LatestImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "parquet", latest.Source)

	got, err := repo.ReadHourly(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReplaceAllRejectsInvalidRowsAndKeepsData(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "rentals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	daily, hourly := sampleTables()
	_, err = repo.ReplaceAll(ctx, "csv", daily, hourly)
	require.NoError(t, err)

	bad := append(hourly, core.HourlyRecord{Date: core.NewDate(2011, 1, 3), Hour: 24, Season: "Winter", TotalRentals: 1})
	_, err = repo.ReplaceAll(ctx, "csv", nil, bad)
	assert.ErrorIs(t, err, core.ErrInvalidHour)

	got, err := repo.ReadDaily(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReplaceAllRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM daily_rentals").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM hourly_rentals").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO daily_rentals").
		WithArgs("2011-01-01", int64(985)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	daily, hourly := sampleTables()
	_, err = NewSQLiteRepositoryWithDB(db).ReplaceAll(context.Background(), "csv", daily, hourly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert daily row 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadDailyQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT day, total_rentals FROM daily_rentals").
		WillReturnError(errors.New("no such table: daily_rentals"))

	_, err = dataset.Load(context.Background(), readDailyOnly{NewSQLiteRepositoryWithDB(db)})
	require.Error(t, err)
	assert.True(t, core.IsLoadError(err))
	assert.Contains(t, err.Error(), "list daily rentals")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadHourlyRejectsCorruptDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT day, hour, season, total_rentals FROM hourly_rentals").
		WillReturnRows(sqlmock.NewRows([]string{"day", "hour", "season", "total_rentals"}).
			AddRow("2011-01-01", int64(0), "Winter", int64(16)).
			AddRow("01-01-2011x", int64(1), "Winter", int64(40)))

	_, err = NewSQLiteRepositoryWithDB(db).ReadHourly(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidDate)

	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Row)
}

// readDailyOnly keeps the hourly read off the mocked connection.
type readDailyOnly struct {
	*SQLiteRepository
}

func (readDailyOnly) ReadHourly(context.Context) ([]core.HourlyRecord, error) {
	return nil, nil
}
