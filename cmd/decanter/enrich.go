package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cellarist/decanter/internal/enrich"
	"github.com/cellarist/decanter/internal/match"
	"github.com/cellarist/decanter/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich [file.json]",
		Short: "Enrich a wine record from the catalog",
		Long: `Enrich a partially-described wine record with catalog data.

Reads an unresolved wine record as JSON (from the given file, or stdin
when omitted), resolves it against the canonical catalog, and writes
the enriched record to stdout. Only empty fields are filled; caller
data always wins. When no confident match exists the record is written
back unchanged and the exit code is still zero.`,
		Example: `  # Enrich a record from an extraction pipeline
  echo '{"name":"Margaux 2015","producer":"Château Margaux","vintage":2015}' | decanter enrich

  # Enrich from a file
  decanter enrich extracted.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEnrich,
	}

	return cmd
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		file, err := os.Open(args[0]) // #nosec G304 -- user-supplied record path
		if err != nil {
			return fmt.Errorf("failed to open record file: %w", err)
		}
		defer func() { _ = file.Close() }()
		in = file
	}

	var u model.UnresolvedWine
	if err := json.NewDecoder(in).Decode(&u); err != nil {
		return fmt.Errorf("failed to decode wine record: %w", err)
	}
	if err := u.Validate(); err != nil {
		return err
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

	matched, err := resolver.Resolve(ctx, u)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if matched != nil {
		u = enrich.Merge(u, *matched)
		slog.Debug("enriched record", "record", u.Label(), "match", matched.Label())
	} else {
		slog.Debug("no confident match, record unchanged", "record", u.Label())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(u)
}
