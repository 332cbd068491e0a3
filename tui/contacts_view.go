package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

type contactsMsg struct {
	contacts []models.Contact
	err      error
}

func (m *Model) initContactInput() {
	m.contactInput = newInput("name or email", 100)
	m.contactInput.Width = 40
}

func (m Model) handleContactsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/", "i", "enter":
		m.editing = true
		return m, m.contactInput.Focus()
	case "up", "k":
		if m.selectedContact > 0 {
			m.selectedContact--
		}
	case "down", "j":
		if m.selectedContact < len(m.contacts)-1 {
			m.selectedContact++
		}
	}
	return m, nil
}

func (m Model) handleContactsEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.contactInput.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.contactInput.Blur()
		dash, ctx, query := m.dash, m.ctx, m.contactInput.Value()
		return m, func() tea.Msg {
			contacts, err := dash.SearchContacts(ctx, query)
			return contactsMsg{contacts: contacts, err: err}
		}
	}

	var cmd tea.Cmd
	m.contactInput, cmd = m.contactInput.Update(msg)
	return m, cmd
}

func (m Model) renderContactsView(st store.State) string {
	var s strings.Builder

	s.WriteString(sectionStyle.Render("Search " + strings.ToUpper(st.Provider.String()) + " contacts"))
	s.WriteString("\n\n")
	if m.editing {
		s.WriteString("> ")
	}
	s.WriteString(m.contactInput.View())
	s.WriteString("\n\n")

	if len(m.contacts) == 0 {
		s.WriteString(mutedStyle.Render("No contacts to show."))
		s.WriteString("\n")
	} else {
		columns := []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 30},
			{Title: "Company", Width: 22},
			{Title: "Phone", Width: 16},
		}
		rows := make([]table.Row, 0, len(m.contacts))
		for _, c := range m.contacts {
			rows = append(rows, table.Row{contactName(c), c.Email, c.Company, c.Phone})
		}
		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(!m.editing),
			table.WithHeight(len(rows)+1),
		)
		t.SetCursor(m.selectedContact)
		s.WriteString(t.View())
		s.WriteString("\n")
	}

	help := "/: search • ↑/↓: navigate • 1-5: tabs • q: quit"
	if m.editing {
		help = "enter: search • esc: cancel"
	}
	s.WriteString(helpStyle.Render(help))
	return s.String()
}

func contactName(c models.Contact) string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
