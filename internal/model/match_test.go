package model

import (
	"testing"
)

func TestMatchResults_SortIsStable(t *testing.T) {
	// Equal scores must keep their retrieval order.
	results := MatchResults{
		{Wine: Wine{Name: "first"}, Score: 50},
		{Wine: Wine{Name: "second"}, Score: 70},
		{Wine: Wine{Name: "third"}, Score: 50},
		{Wine: Wine{Name: "fourth"}, Score: 50},
	}

	results.Sort()

	wantOrder := []string{"second", "first", "third", "fourth"}
	for i, want := range wantOrder {
		if results[i].Wine.Name != want {
			t.Errorf("position %d = %q, want %q", i, results[i].Wine.Name, want)
		}
	}
}

func TestMatchResults_Best(t *testing.T) {
	var empty MatchResults
	if empty.Best() != nil {
		t.Error("Best() on empty results should be nil")
	}

	results := MatchResults{
		{Wine: Wine{Name: "low"}, Score: 20},
		{Wine: Wine{Name: "high"}, Score: 65},
	}
	best := results.Best()
	if best == nil {
		t.Fatal("Best() returned nil for non-empty results")
	}
	if best.Wine.Name != "high" || best.Score != 65 {
		t.Errorf("Best() = %q (%d), want %q (65)", best.Wine.Name, best.Score, "high")
	}
}

func TestMatchResults_AboveThreshold(t *testing.T) {
	results := MatchResults{
		{Wine: Wine{Name: "a"}, Score: 49},
		{Wine: Wine{Name: "b"}, Score: 50},
		{Wine: Wine{Name: "c"}, Score: 90},
	}

	kept := results.AboveThreshold(50)
	if len(kept) != 2 {
		t.Fatalf("AboveThreshold(50) kept %d results, want 2", len(kept))
	}
	if kept[0].Wine.Name != "c" || kept[1].Wine.Name != "b" {
		t.Errorf("AboveThreshold(50) order = [%s %s], want [c b]", kept[0].Wine.Name, kept[1].Wine.Name)
	}
}
