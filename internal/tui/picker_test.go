package tui

import (
	"context"
	"testing"

	"github.com/cellarist/decanter/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testMatches() model.MatchResults {
	return model.MatchResults{
		{
			Wine: model.Wine{
				Name:     "Château Margaux",
				Producer: "Château Margaux",
				Vintage:  intPtr(2015),
				Region:   "Bordeaux",
			},
			Score: 80,
			Tags:  []string{"name:exact", "producer:exact", "vintage:exact"},
		},
		{
			Wine: model.Wine{
				Name:     "Margaux du Château",
				Producer: "Château Margaux",
				Vintage:  intPtr(2016),
				Region:   "Bordeaux",
			},
			Score: 60,
			Tags:  []string{"name:substring", "producer:exact", "vintage:adjacent"},
		},
	}
}

func TestNewModel(t *testing.T) {
	matches := testMatches()
	m := NewModel("Margaux 2015", matches)

	rows := m.table.Rows()
	require.Len(t, rows, 2)

	// Sorted by score descending
	assert.Equal(t, "80", rows[0][0])
	assert.Equal(t, "Château Margaux", rows[0][1])
	assert.Equal(t, "2015", rows[0][3])
	assert.Equal(t, "name:exact, producer:exact, vintage:exact", rows[0][5])

	assert.Equal(t, "60", rows[1][0])

	assert.Equal(t, "Margaux 2015", m.query)
	assert.False(t, m.canceled)
	assert.Nil(t, m.choice)
}

func TestNewModel_CapsVisibleRows(t *testing.T) {
	matches := make(model.MatchResults, 0, 15)
	for i := 0; i < 15; i++ {
		matches = append(matches, model.MatchResult{
			Wine:  model.Wine{Name: "Wine"},
			Score: 50 + i,
		})
	}

	m := NewModel("query", matches)
	assert.Len(t, m.table.Rows(), 15)
	assert.Equal(t, maxVisibleRows, m.table.Height())
}

func TestModel_Update_SelectReturnsChoice(t *testing.T) {
	m := NewModel("Margaux 2015", testMatches())

	// Move to the second candidate, then select it
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	require.NotNil(t, m.choice)
	assert.Equal(t, "Margaux du Château", m.choice.Name)
	assert.False(t, m.canceled)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_Update_QuitCancels(t *testing.T) {
	m := NewModel("Margaux 2015", testMatches())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	assert.True(t, m.canceled)
	assert.Nil(t, m.choice)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m := NewModel("Margaux 2015", testMatches())

	view := m.View()
	assert.Contains(t, view, "Candidates for Margaux 2015")
	assert.Contains(t, view, "Château Margaux")
	assert.Contains(t, view, "select match")
}

func TestPickCandidate_NoMatches(t *testing.T) {
	wine, err := PickCandidate(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Nil(t, wine)
}
