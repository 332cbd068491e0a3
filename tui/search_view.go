// ABOUTME: Search tab for the dashboard
// ABOUTME: Natural language query box, results table, enrichment, and export to CRM
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/store"
)

// enrichedMsg carries the emails found for the current results.
type enrichedMsg struct {
	emails map[string]string
	err    error
}

func (m *Model) initSearchInput() {
	m.searchInput = newInput("coffee shops in Brooklyn with outdoor seating", 200)
	m.searchInput.Width = 60
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.state().SearchResults

	switch msg.String() {
	case "/", "i", "enter":
		m.editing = true
		m.searchInput.SetValue(m.state().SearchQuery)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(results)-1 {
			m.selectedRow++
		}
	case "c":
		m.dash.ClearResults()
		m.selectedRow = 0
		m.emails = nil
	case "e":
		dash, ctx := m.dash, m.ctx
		return m, func() tea.Msg {
			emails, err := dash.EnrichResults(ctx)
			return enrichedMsg{emails: emails, err: err}
		}
	case "l":
		emails := m.emails
		return m, m.run("export", func(ctx context.Context) error {
			_, err := m.dash.CreateLeadsFromResults(ctx, emails)
			return err
		})
	}
	return m, nil
}

func (m Model) handleSearchEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.searchInput.Blur()
		query := m.searchInput.Value()
		return m, m.run("search", func(ctx context.Context) error {
			_, err := m.dash.Search(ctx, query)
			return err
		})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) renderSearchView(st store.State) string {
	var s strings.Builder

	s.WriteString(sectionStyle.Render("Find businesses"))
	s.WriteString("\n\n")
	if m.editing {
		s.WriteString("> ")
		s.WriteString(m.searchInput.View())
	} else if st.SearchQuery != "" {
		s.WriteString(mutedStyle.Render("Query: ") + st.SearchQuery)
	} else {
		s.WriteString(mutedStyle.Render("Press / to search"))
	}
	s.WriteString("\n\n")

	if len(st.SearchResults) == 0 {
		s.WriteString(mutedStyle.Render("No results yet."))
		s.WriteString("\n")
	} else {
		s.WriteString(m.renderResultsTable(st))
		s.WriteString("\n")
		if m.selectedRow < len(st.SearchResults) {
			s.WriteString(m.renderBusinessDetail(st, m.selectedRow))
		}
	}

	help := "/: search • ↑/↓: navigate • e: find emails • l: add leads to CRM • c: clear • 1-5: tabs • q: quit"
	if m.editing {
		help = "enter: search • esc: cancel"
	}
	s.WriteString(helpStyle.Render(help))
	return s.String()
}

func (m Model) renderResultsTable(st store.State) string {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Address", Width: 36},
		{Title: "Rating", Width: 8},
		{Title: "Email", Width: 26},
	}

	rows := make([]table.Row, 0, len(st.SearchResults))
	for _, b := range st.SearchResults {
		rating := "-"
		if b.Rating != nil {
			rating = fmt.Sprintf("%.1f", *b.Rating)
		}
		email := m.emails[b.PlaceID]
		if email == "" {
			email = "-"
		}
		rows = append(rows, table.Row{b.Name, b.FormattedAddress, rating, email})
	}

	height := len(rows) + 1
	if limit := m.height - 14; limit > 3 && height > limit {
		height = limit
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(!m.editing),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderBusinessDetail(st store.State, idx int) string {
	b := st.SearchResults[idx]
	var s strings.Builder

	s.WriteString(titleStyle.Render(b.Name))
	s.WriteString("\n")
	detail := func(label, value string) {
		if value == "" {
			return
		}
		s.WriteString(labelStyle.Render(label))
		s.WriteString(value)
		s.WriteString("\n")
	}
	detail("Phone:", b.FormattedPhoneNumber)
	detail("Website:", b.Website)
	detail("Maps:", b.GoogleMapsURL)
	if b.UserRatingTotal != nil {
		detail("Reviews:", fmt.Sprintf("%d", *b.UserRatingTotal))
	}
	if len(b.Types) > 0 {
		detail("Types:", strings.Join(b.Types, ", "))
	}
	return s.String()
}
