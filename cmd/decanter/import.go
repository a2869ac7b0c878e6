package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cellarist/decanter/internal/cli"
	"github.com/cellarist/decanter/internal/ingest"
	"github.com/cellarist/decanter/internal/service"
	"github.com/cellarist/decanter/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a wine catalog file",
		Long: `Import canonical wine records from a CSV catalog file.

Rows are matched against the existing catalog by identity code (LWIN),
so re-importing the same file updates records instead of duplicating
them. Rows without a usable name or code are skipped; row-level
failures are logged and counted but never abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().IntP("batch-size", "b", ingest.DefaultBatchSize, "Rows per progress batch")
	cmd.Flags().Bool("backup", false, "Create an automatic backup before importing")

	// Bind to viper
	_ = viper.BindPFlag("import.batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("import.backup", cmd.Flags().Lookup("backup"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	// Initialize storage with auto-migration
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Optional safety net before ingesting
	if viper.GetBool("import.backup") {
		sqliteStore, ok := store.(*storage.SQLiteStorage)
		if !ok {
			return fmt.Errorf("storage is not SQLite")
		}
		manager, mgrErr := sqliteStore.NewBackupManager()
		if mgrErr != nil {
			return fmt.Errorf("failed to create backup manager: %w", mgrErr)
		}
		if backupErr := manager.AutoBackup(ctx, "import"); backupErr != nil {
			return fmt.Errorf("failed to create pre-import backup: %w", backupErr)
		}
		slog.Info(cli.FormatSuccess("✓ Created pre-import backup"))
	}

	slog.Info(cli.FormatTitle("Importing wine catalog"))
	slog.Info("Source", "file", path)

	opts := []ingest.ImporterOption{
		ingest.WithBatchSize(viper.GetInt("import.batch_size")),
	}
	if fi, statErr := os.Stderr.Stat(); statErr == nil && fi.Mode()&os.ModeCharDevice != 0 {
		opts = append(opts, ingest.WithProgress(os.Stderr))
	}

	importer := ingest.NewImporter(store, opts...)
	stats, err := importer.ImportFile(ctx, path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info(cli.FormatSuccess("✓ Import complete!"))
	displayImportSummary(stats)

	return nil
}

func displayImportSummary(stats service.ImportStats) {
	content := fmt.Sprintf(`Rows processed: %d
Inserted: %d
Updated: %d
Skipped: %d
Errors: %d

Duration: %s`,
		stats.Total,
		stats.Inserted,
		stats.Updated,
		stats.Skipped,
		stats.Errors,
		stats.Duration.Round(time.Millisecond))

	slog.Info(cli.RenderBox("Import Summary", content))
}
