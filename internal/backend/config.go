package backend

import (
	"fmt"

	"bikedash/internal/config"
	"bikedash/internal/dataset"
)

// FromAppConfig converts the application config to backend config,
// reading the optional dataset schema file.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	schema, err := dataset.LoadSchema(appConfig.DatasetSchemaFile)
	if err != nil {
		return Config{}, fmt.Errorf("dataset schema: %w", err)
	}

	return Config{
		Type: backendType,

		DataDirectory: appConfig.DataDir,
		Schema:        schema,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case CSVBackend, ParquetBackend:
		if c.DataDirectory == "" {
			return fmt.Errorf("data directory is required for %s backend", c.Type)
		}

	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{CSVBackend, ParquetBackend, SQLiteBackend, SheetsBackend}
}

// GetBackendTypeStrings returns the backend names accepted by DATA_BACKEND and --from.
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
