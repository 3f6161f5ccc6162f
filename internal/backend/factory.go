package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bikedash/internal/dataset/csvfile"
	"bikedash/internal/dataset/google"
	"bikedash/internal/dataset/parquetfile"
	applog "bikedash/internal/log"
	"bikedash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(config), nil
	case ParquetBackend:
		return f.createParquetBackend(config), nil
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(config Config) *BackendResult {
	src := csvfile.New(config.DataDirectory, config.Schema)

	f.logger.Info("Initialized CSV backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Source:  src,
		Cleanup: nil, // No cleanup needed for file backends
	}
}

func (f *DefaultFactory) createParquetBackend(config Config) *BackendResult {
	src := parquetfile.New(config.DataDirectory)

	f.logger.Info("Initialized Parquet backend", "data_directory", config.DataDirectory)

	return &BackendResult{
		Source:  src,
		Cleanup: nil,
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	src, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
		Schema:          config.Schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{
		Source:  src,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}
