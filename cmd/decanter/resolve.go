package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cellarist/decanter/internal/cli"
	"github.com/cellarist/decanter/internal/match"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resolveCmd() *cobra.Command {
	var (
		name        string
		producer    string
		vintage     int
		region      string
		country     string
		appellation string
		code        string
		showAll     bool
		interactive bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a wine description against the catalog",
		Long: `Resolve a partially-described wine against the canonical catalog.

Candidates are scored on name, producer, vintage, region, appellation
and country; the best candidate is accepted only above a fixed
confidence threshold. A code guess (--code) is tried directly first.

No match is a normal outcome, not an error.`,
		Example: `  # Resolve by description
  decanter resolve --name "Margaux 2015" --producer "Château Margaux" --vintage 2015

  # Try an LWIN code first
  decanter resolve --code 10123452015 --name "Margaux"

  # Inspect every scored candidate
  decanter resolve --name "Margaux" --all

  # Pick from candidates interactively
  decanter resolve --name "Margaux" --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			u := model.UnresolvedWine{
				Name:          name,
				Producer:      producer,
				Region:        region,
				Country:       country,
				Appellation:   appellation,
				SuggestedCode: code,
			}
			if vintage > 0 {
				u.Vintage = &vintage
			}
			if err := u.Validate(); err != nil {
				return err
			}
			if !u.HasText() && u.SuggestedCode == "" {
				return fmt.Errorf("nothing to resolve: provide at least one of --name, --producer, --region or --code")
			}

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver := match.NewResolverWithConfig(store, match.Config{
				CandidateLimit: viper.GetInt("resolve.limit"),
			})

			switch {
			case showAll:
				return resolveAll(ctx, resolver, u, asJSON)
			case interactive:
				return resolveInteractive(ctx, resolver, u, asJSON)
			default:
				return resolveOne(ctx, resolver, u, asJSON)
			}
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Wine name or label text")
	cmd.Flags().StringVarP(&producer, "producer", "p", "", "Producer name")
	cmd.Flags().IntVarP(&vintage, "vintage", "v", 0, "Vintage year")
	cmd.Flags().StringVar(&region, "region", "", "Region")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	cmd.Flags().StringVar(&appellation, "appellation", "", "Appellation")
	cmd.Flags().StringVar(&code, "code", "", "LWIN identity code guess (7, 11 or 18 digits)")
	cmd.Flags().BoolVar(&showAll, "all", false, "List every scored candidate instead of deciding")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the match from candidates interactively")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write machine-readable JSON to stdout")
	cmd.Flags().Int("limit", match.DefaultCandidateLimit, "Maximum candidates to score")

	_ = viper.BindPFlag("resolve.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

// resolveOne makes the threshold decision and prints it.
func resolveOne(ctx context.Context, resolver *match.Resolver, u model.UnresolvedWine, asJSON bool) error {
	wine, err := resolver.Resolve(ctx, u)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if asJSON {
		return writeJSON(wine)
	}

	if wine == nil {
		slog.Info(cli.FormatWarning(fmt.Sprintf("No match for %q (no candidate reached %d points)", u.Label(), match.AcceptScore)))
		return nil
	}

	score, tags := match.Score(u, *wine)
	displayMatch(wine, score, tags)
	return nil
}

// resolveAll prints the full ranked candidate list without deciding.
func resolveAll(ctx context.Context, resolver *match.Resolver, u model.UnresolvedWine, asJSON bool) error {
	results, err := resolver.ScoreCandidates(ctx, u)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if asJSON {
		return writeJSON(results)
	}

	if len(results) == 0 {
		slog.Info(cli.FormatWarning(fmt.Sprintf("No candidates for %q", u.Label())))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Candidates for %q", u.Label())))
	displayCandidateTable(results)
	return nil
}

// resolveInteractive hands the ranked candidates to the picker; a
// canceled picker means the record stays unresolved.
func resolveInteractive(ctx context.Context, resolver *match.Resolver, u model.UnresolvedWine, asJSON bool) error {
	results, err := resolver.ScoreCandidates(ctx, u)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	choice, err := tui.PickCandidate(ctx, u.Label(), results)
	if err != nil {
		return fmt.Errorf("picker failed: %w", err)
	}

	if asJSON {
		return writeJSON(choice)
	}

	if choice == nil {
		slog.Info(cli.FormatWarning("No match selected."))
		return nil
	}

	score, tags := match.Score(u, *choice)
	displayMatch(choice, score, tags)
	return nil
}

func displayMatch(wine *model.Wine, score int, tags []string) {
	content := fmt.Sprintf(`%s

Score: %d (threshold %d)
Matched on: %s

LWIN7: %s
LWIN11: %s
Country: %s
Region: %s
Appellation: %s
Category: %s`,
		cli.BoldStyle.Render(wine.Label()),
		score,
		match.AcceptScore,
		strings.Join(tags, ", "),
		orDash(wine.LWIN7),
		orDash(wine.LWIN11),
		orDash(wine.Country),
		orDash(wine.Region),
		orDash(wine.Appellation),
		orDash(string(wine.Category)))

	slog.Info(cli.RenderBox("Resolved", content))
}

func displayCandidateTable(results model.MatchResults) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	fmt.Fprintln(w, strings.Join([]string{
		headerStyle.Render("SCORE"),
		headerStyle.Render("NAME"),
		headerStyle.Render("PRODUCER"),
		headerStyle.Render("VINTAGE"),
		headerStyle.Render("REGION"),
		headerStyle.Render("MATCHED ON"),
	}, "\t"))

	for _, result := range results {
		vintage := ""
		if result.Wine.Vintage != nil {
			vintage = strconv.Itoa(*result.Wine.Vintage)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			result.Score,
			result.Wine.Name,
			result.Wine.Producer,
			vintage,
			result.Wine.Region,
			strings.Join(result.Tags, ", "),
		)
	}

	_ = w.Flush()
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
