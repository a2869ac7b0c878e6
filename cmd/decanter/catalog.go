package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cellarist/decanter/internal/cli"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the wine catalog",
		Long:  `Inspect the canonical wine catalog and its import history.`,
	}

	cmd.AddCommand(catalogStatsCmd())
	cmd.AddCommand(catalogLookupCmd())
	cmd.AddCommand(catalogListCmd())

	return cmd
}

func catalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Display record counts by country and category, plus import run history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.CatalogStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect catalog stats: %w", err)
			}

			lastImport := "never"
			if stats.LastImport != nil {
				lastImport = stats.LastImport.Format("2006-01-02 15:04")
			}

			content := fmt.Sprintf(`Catalog records: %d
With LWIN codes: %d
Countries: %d
Categories: %d

Last import: %s`,
				stats.TotalRecords,
				stats.WithLWIN,
				len(stats.ByCountry),
				len(stats.ByCategory),
				lastImport)

			fmt.Println(cli.RenderBox("Catalog", content))

			if len(stats.ByCountry) > 0 {
				fmt.Println(cli.SubtitleStyle.Render("By country:"))
				displayCountTable(stats.ByCountry)
			}
			if len(stats.ByCategory) > 0 {
				fmt.Println(cli.SubtitleStyle.Render("By category:"))
				displayCountTable(stats.ByCategory)
			}

			runs, err := store.ListImportRuns(ctx, 10)
			if err != nil {
				return fmt.Errorf("failed to list import runs: %w", err)
			}
			if len(runs) > 0 {
				fmt.Println(cli.SubtitleStyle.Render("Recent imports:"))
				displayImportRunTable(runs)
			}

			return nil
		},
	}
}

func catalogLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <code>",
		Short: "Look up a catalog record by LWIN code",
		Long: `Look up a canonical record directly by identity code.

The code's length decides which column it is matched against:
7 digits for the wine, 11 for wine+vintage, 18 for the full bottle code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code := args[0]

			field, err := model.LWINField(code)
			if err != nil {
				return err
			}

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wine, err := store.FindOne(ctx, service.Eq(field, code))
			if err != nil {
				return fmt.Errorf("lookup failed: %w", err)
			}
			if wine == nil {
				slog.Info(cli.FormatWarning(fmt.Sprintf("No catalog record for code %s", code)))
				return nil
			}

			displayWine(wine)
			return nil
		},
	}
}

func catalogListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		Long:  `List canonical catalog records ordered by name and vintage.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wines, err := store.ListCatalog(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list catalog: %w", err)
			}

			if len(wines) == 0 {
				fmt.Println(cli.SubtitleStyle.Render("Catalog is empty."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			fmt.Fprintln(w, strings.Join([]string{
				headerStyle.Render("LWIN7"),
				headerStyle.Render("NAME"),
				headerStyle.Render("PRODUCER"),
				headerStyle.Render("VINTAGE"),
				headerStyle.Render("COUNTRY"),
				headerStyle.Render("CATEGORY"),
			}, "\t"))

			for i := range wines {
				wine := &wines[i]
				vintage := ""
				if wine.Vintage != nil {
					vintage = strconv.Itoa(*wine.Vintage)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					orDash(wine.LWIN7),
					wine.Name,
					wine.Producer,
					vintage,
					wine.Country,
					string(wine.Category),
				)
			}

			_ = w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum records to list (0 for all)")

	return cmd
}

func displayWine(wine *model.Wine) {
	vintage := "-"
	if wine.Vintage != nil {
		vintage = strconv.Itoa(*wine.Vintage)
	}
	alcohol := "-"
	if wine.Alcohol != nil {
		alcohol = fmt.Sprintf("%.1f%%", *wine.Alcohol)
	}
	grapes := "-"
	if len(wine.Grapes) > 0 {
		names := make([]string, 0, len(wine.Grapes))
		for _, grape := range wine.Grapes {
			names = append(names, grape.Name)
		}
		grapes = strings.Join(names, ", ")
	}

	content := fmt.Sprintf(`%s

LWIN7: %s
LWIN11: %s
LWIN18: %s

Producer: %s
Vintage: %s
Country: %s
Region: %s
Sub-region: %s
Appellation: %s
Classification: %s
Category: %s
Grapes: %s
Alcohol: %s

Source: %s
Updated: %s`,
		cli.BoldStyle.Render(wine.Label()),
		orDash(wine.LWIN7),
		orDash(wine.LWIN11),
		orDash(wine.LWIN18),
		orDash(wine.Producer),
		vintage,
		orDash(wine.Country),
		orDash(wine.Region),
		orDash(wine.SubRegion),
		orDash(wine.Appellation),
		orDash(wine.Classification),
		orDash(string(wine.Category)),
		grapes,
		alcohol,
		orDash(string(wine.DataSource)),
		wine.UpdatedAt.Format("2006-01-02 15:04"))

	fmt.Println(cli.RenderBox("Catalog Record", content))
}

func displayCountTable(counts map[string]int) {
	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, entry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%d\n", e.key, e.count)
	}
	_ = w.Flush()
}

func displayImportRunTable(runs []model.ImportRun) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	fmt.Fprintln(w, strings.Join([]string{
		headerStyle.Render("STARTED"),
		headerStyle.Render("SOURCE"),
		headerStyle.Render("ROWS"),
		headerStyle.Render("INSERTED"),
		headerStyle.Render("UPDATED"),
		headerStyle.Render("SKIPPED"),
		headerStyle.Render("ERRORS"),
	}, "\t"))

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.SourceFile,
			run.Total,
			run.Inserted,
			run.Updated,
			run.Skipped,
			run.Errors,
		)
	}

	_ = w.Flush()
}
