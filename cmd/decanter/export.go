package main

import (
	"fmt"
	"log/slog"

	"github.com/cellarist/decanter/internal/cli"
	"github.com/cellarist/decanter/internal/config"
	"github.com/cellarist/decanter/internal/report"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to Google Sheets",
		Long: `Export the wine catalog and its import history to Google Sheets.

The report contains a summary, country and category breakdowns, the
import run history, and the full catalog. Authentication uses either
an OAuth2 refresh token (run 'decanter auth sheets' once) or a service
account key file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("sheets configuration error: %w", err)
			}
			if spreadsheetID != "" {
				sheetsConfig.SpreadsheetID = spreadsheetID
			}

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			slog.Info(cli.FormatTitle("Exporting catalog to Google Sheets"))

			wines, err := store.ListCatalog(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			runs, err := store.ListImportRuns(ctx, 100)
			if err != nil {
				return fmt.Errorf("failed to load import runs: %w", err)
			}
			stats, err := store.CatalogStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect catalog stats: %w", err)
			}

			writer, err := report.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create report writer: %w", err)
			}

			if err := writer.Write(ctx, wines, runs, stats); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("✓ Exported %d records and %d import runs", len(wines), len(runs))))
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "Target spreadsheet ID (overrides config)")

	return cmd
}
