// Package main provides a demo program for the candidate picker TUI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/tui"
)

func main() {
	ctx := context.Background()

	vintage2015 := 2015
	vintage2016 := 2016
	matches := model.MatchResults{
		{
			Wine: model.Wine{
				Name:        "Château Margaux",
				Producer:    "Château Margaux",
				Vintage:     &vintage2015,
				Country:     "France",
				Region:      "Bordeaux",
				Appellation: "Margaux",
				LWIN7:       "1012345",
				LWIN11:      "10123452015",
			},
			Score: 80,
			Tags:  []string{"name:exact", "producer:exact", "vintage:exact"},
		},
		{
			Wine: model.Wine{
				Name:     "Margaux du Château Margaux",
				Producer: "Château Margaux",
				Vintage:  &vintage2016,
				Country:  "France",
				Region:   "Bordeaux",
				LWIN7:    "1045678",
			},
			Score: 60,
			Tags:  []string{"name:substring", "producer:exact", "vintage:adjacent"},
		},
		{
			Wine: model.Wine{
				Name:    "Margaux de Brane",
				Country: "France",
				Region:  "Bordeaux",
			},
			Score: 40,
			Tags:  []string{"name:substring", "region:region"},
		},
	}

	choice, err := tui.PickCandidate(ctx, "Margaux 2015", matches)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
		os.Exit(1)
	}

	if choice == nil {
		fmt.Println("No candidate selected.")
		return
	}
	fmt.Printf("Selected: %s\n", choice.Label())
}
