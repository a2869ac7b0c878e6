package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/cellarist/decanter/internal/common"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Create the Sheets service
	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write implements the ReportWriter interface.
func (w *Writer) Write(ctx context.Context, wines []model.Wine, runs []model.ImportRun, stats *service.CatalogStats) error {
	w.logger.Info("starting catalog report",
		"records", len(wines),
		"import_runs", len(runs))

	// Get or create spreadsheet
	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	// Clear existing data
	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	// Prepare the data
	values := w.prepareReportData(wines, runs, stats)

	// Write data in batches with retry
	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)

	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Apply formatting if enabled
	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
			// Don't fail the whole operation if formatting fails
		}
	}

	w.logger.Info("catalog report completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var client *oauth2.Config
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		// Use service account authentication
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		// Use OAuth2 authentication
		client = &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		// Verify the spreadsheet exists and is accessible
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	// Create a new spreadsheet
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Catalog",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData prepares the data for the report.
func (w *Writer) prepareReportData(wines []model.Wine, runs []model.ImportRun, stats *service.CatalogStats) [][]any {
	// Pre-allocate with estimated capacity
	// Header(2) + Summary(5) + Country header(2) + countries + empty(1) + Category(1+category count) + empty(3) + Import header(2) + runs + empty(3) + Catalog header(2) + wines
	estimatedRows := 21 + len(stats.ByCountry) + len(stats.ByCategory) + len(runs) + len(wines)
	values := make([][]any, 0, estimatedRows)

	lastImport := "never"
	if stats.LastImport != nil {
		lastImport = stats.LastImport.Format("Jan 2, 2006")
	}

	// Add header and summary in one append
	values = append(values,
		[]any{
			"Wine Catalog Report",
			fmt.Sprintf("Generated %s", time.Now().Format("Jan 2, 2006")),
		},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Catalog Records", stats.TotalRecords},
		[]any{"With LWIN Codes", stats.WithLWIN},
		[]any{"Last Import", lastImport},
		[]any{}, // Empty row
		[]any{"Country Breakdown"},
		[]any{"Country", "Records"},
	)

	// Sort countries by record count (descending)
	countries := make([]string, 0, len(stats.ByCountry))
	for country := range stats.ByCountry {
		countries = append(countries, country)
	}
	sort.Slice(countries, func(i, j int) bool {
		return stats.ByCountry[countries[i]] > stats.ByCountry[countries[j]]
	})

	for _, country := range countries {
		values = append(values, []any{
			country,
			stats.ByCountry[country],
		})
	}

	// Add empty row and category breakdown
	values = append(values,
		[]any{}, // Empty row
		[]any{"Category Breakdown"},
	)
	for category, count := range stats.ByCategory {
		values = append(values, []any{
			category,
			count,
		})
	}

	// Add empty rows and import history header
	values = append(values,
		[]any{}, // Empty row
		[]any{}, // Empty row
		[]any{"Import History"},
		[]any{
			"Started",
			"Source File",
			"Rows",
			"Inserted",
			"Updated",
			"Skipped",
			"Errors",
		})

	// Sort runs by start time (newest first)
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	for _, run := range runs {
		values = append(values, []any{
			run.StartedAt.Format("2006-01-02 15:04"),
			run.SourceFile,
			run.Total,
			run.Inserted,
			run.Updated,
			run.Skipped,
			run.Errors,
		})
	}

	// Add empty rows and catalog details header
	values = append(values,
		[]any{}, // Empty row
		[]any{}, // Empty row
		[]any{"Catalog Details"},
		[]any{
			"LWIN7",
			"LWIN11",
			"Name",
			"Producer",
			"Vintage",
			"Country",
			"Region",
			"Appellation",
			"Category",
			"Classification",
			"Alcohol",
		})

	// Sort wines alphabetically, vintages ascending within a wine
	sort.Slice(wines, func(i, j int) bool {
		if wines[i].Name != wines[j].Name {
			return wines[i].Name < wines[j].Name
		}
		return vintageOrZero(wines[i].Vintage) < vintageOrZero(wines[j].Vintage)
	})

	// Add each catalog record
	for _, wine := range wines {
		vintage := any("")
		if wine.Vintage != nil {
			vintage = *wine.Vintage
		}
		alcohol := ""
		if wine.Alcohol != nil {
			alcohol = fmt.Sprintf("%.1f%%", *wine.Alcohol)
		}
		values = append(values, []any{
			wine.LWIN7,
			wine.LWIN11,
			wine.Name,
			wine.Producer,
			vintage,
			wine.Country,
			wine.Region,
			wine.Appellation,
			string(wine.Category),
			wine.Classification,
			alcohol,
		})
	}

	return values
}

func vintageOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// writeData writes the data to the spreadsheet.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	// Write in batches to avoid API limits
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := i + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting applies formatting to the spreadsheet.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	requests := []*sheets.Request{
		// Format header
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 16,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Format section headers
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    2,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Auto-resize columns
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   11,
				},
			},
		},
		// Freeze header rows
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 2,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
