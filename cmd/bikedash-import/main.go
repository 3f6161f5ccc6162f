// Command bikedash-import copies the rental tables from one dataset backend
// into the sqlite database (or a parquet directory) used by the dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"bikedash/internal/backend"
	"bikedash/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "bikedash-import",
		Short: "Import the rental tables into the dashboard store",
		Long: `Reads the daily and hourly rental tables from a csv, parquet or Google
Sheets source and replaces the contents of the sqlite database, or writes
them as parquet files. Settings not given as flags come from the
environment, as for the dashboard server.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	setupFlags(cmd, &opts)
	cmd.AddCommand(statusCommand(&opts))
	return cmd
}

func setupFlags(cmd *cobra.Command, opts *importOptions) {
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (default SQLITE_DB_PATH)")

	cmd.Flags().StringVarP(&opts.From, "from", "f", "csv",
		"Source backend: "+strings.Join(backend.GetBackendTypeStrings(), ", "))
	cmd.Flags().StringVarP(&opts.DataDir, "data-dir", "d", "", "Directory of csv/parquet source files (default DATA_DIR)")
	cmd.Flags().StringVar(&opts.SchemaFile, "schema", "", "YAML column mapping for text sources (default DATASET_SCHEMA_FILE)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "sqlite", "Target: sqlite or parquet")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "Output directory for --to parquet (default the data dir)")
}

func statusCommand(opts *importOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest import recorded in the sqlite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
}
