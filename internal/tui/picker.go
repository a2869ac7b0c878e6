// Package tui provides an interactive terminal picker for choosing among
// candidate catalog matches.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cellarist/decanter/internal/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxVisibleRows = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B04A5A"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Model is the bubbletea model for the candidate picker.
type Model struct {
	choice   *model.Wine
	query    string
	matches  model.MatchResults
	table    table.Model
	keys     KeyMap
	canceled bool
}

// NewModel builds a picker over the given scored matches. The query is the
// label of the record being resolved, shown in the header.
func NewModel(query string, matches model.MatchResults) Model {
	matches.Sort()

	columns := []table.Column{
		{Title: "Score", Width: 5},
		{Title: "Name", Width: 34},
		{Title: "Producer", Width: 22},
		{Title: "Vintage", Width: 7},
		{Title: "Region", Width: 16},
		{Title: "Matched on", Width: 28},
	}

	rows := make([]table.Row, 0, len(matches))
	for _, match := range matches {
		vintage := ""
		if match.Wine.Vintage != nil {
			vintage = strconv.Itoa(*match.Wine.Vintage)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(match.Score),
			match.Wine.Name,
			match.Wine.Producer,
			vintage,
			match.Wine.Region,
			strings.Join(match.Tags, ", "),
		})
	}

	height := len(rows)
	if height > maxVisibleRows {
		height = maxVisibleRows
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#B04A5A")).
		Bold(true)
	t.SetStyles(s)

	return Model{
		keys:    DefaultKeyMap(),
		table:   t,
		query:   query,
		matches: matches,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			m.choice = m.selectedWine()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
			m.canceled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Candidates for %s", m.query)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.keys.ShortHelp())))
	b.WriteString("\n")
	return b.String()
}

// selectedWine returns the wine under the cursor.
func (m Model) selectedWine() *model.Wine {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.matches) {
		return nil
	}
	wine := m.matches[idx].Wine
	return &wine
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}

// PickCandidate shows the picker and blocks until the user chooses a match
// or dismisses it. A nil wine with a nil error means the user declined
// every candidate.
func PickCandidate(ctx context.Context, query string, matches model.MatchResults) (*model.Wine, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	program := tea.NewProgram(NewModel(query, matches), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run picker: %w", err)
	}

	picker, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model type %T", final)
	}
	if picker.canceled {
		return nil, nil
	}
	return picker.choice, nil
}
