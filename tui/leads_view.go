// ABOUTME: Leads tab with the manual lead and deal forms
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

type formKind int

const (
	leadForm formKind = iota
	dealForm
)

var (
	leadLabels = []string{"Email*:", "First name:", "Last name:", "Phone:", "Company:", "Website:"}
	dealLabels = []string{"Deal name*:", "Stage:", "Amount:", "Description:"}
)

func (m *Model) initLeadForms() {
	m.leadInputs = make([]textinput.Model, len(leadLabels))
	for i := range m.leadInputs {
		m.leadInputs[i] = newInput("", 100)
	}
	m.leadInputs[0].Placeholder = "jane@example.com"

	m.dealInputs = make([]textinput.Model, len(dealLabels))
	for i := range m.dealInputs {
		m.dealInputs[i] = newInput("", 200)
	}
	m.dealInputs[1].Placeholder = models.DefaultDealStage
	m.dealInputs[2].Placeholder = "5000"
}

func (m *Model) resetLeadForm() {
	for i := range m.leadInputs {
		m.leadInputs[i].SetValue("")
	}
}

func (m *Model) resetDealForm() {
	for i := range m.dealInputs {
		m.dealInputs[i].SetValue("")
	}
}

func (m Model) activeInputs() []textinput.Model {
	if m.activeForm == dealForm {
		return m.dealInputs
	}
	return m.leadInputs
}

func (m Model) handleLeadsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		m.activeForm = leadForm
	case "d":
		m.activeForm = dealForm
	default:
		return m, nil
	}
	m.editing = true
	m.formFocus = 0
	return m, focusInputs(m.activeInputs(), 0)
}

func (m Model) handleLeadsEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := m.activeInputs()

	switch msg.String() {
	case "esc":
		m.editing = false
		blurInputs(inputs)
		return m, nil
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % len(inputs)
		return m, focusInputs(inputs, m.formFocus)
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + len(inputs) - 1) % len(inputs)
		return m, focusInputs(inputs, m.formFocus)
	case "enter":
		m.editing = false
		blurInputs(inputs)
		if m.activeForm == dealForm {
			return m, m.submitDeal()
		}
		return m, m.submitLead("lead")
	case "ctrl+u":
		if m.activeForm == leadForm {
			m.editing = false
			blurInputs(inputs)
			return m, m.submitLead("upsert")
		}
	}

	var cmd tea.Cmd
	inputs[m.formFocus], cmd = inputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) leadFromForm() models.Lead {
	v := func(i int) string { return strings.TrimSpace(m.leadInputs[i].Value()) }
	return models.Lead{
		Email:     v(0),
		FirstName: v(1),
		LastName:  v(2),
		Phone:     v(3),
		Company:   v(4),
		Website:   v(5),
	}
}

func (m Model) dealFromForm() models.Deal {
	v := func(i int) string { return strings.TrimSpace(m.dealInputs[i].Value()) }
	return models.Deal{
		DealName:    v(0),
		DealStage:   v(1),
		Amount:      v(2),
		Description: v(3),
	}
}

func (m Model) submitLead(action string) tea.Cmd {
	lead := m.leadFromForm()
	return m.run(action, func(ctx context.Context) error {
		var err error
		if action == "upsert" {
			_, err = m.dash.UpsertLead(ctx, lead)
		} else {
			_, err = m.dash.CreateLead(ctx, lead)
		}
		return err
	})
}

func (m Model) submitDeal() tea.Cmd {
	deal := m.dealFromForm()
	return m.run("deal", func(ctx context.Context) error {
		_, err := m.dash.CreateDeal(ctx, deal)
		return err
	})
}

func (m Model) renderLeadsView(st store.State) string {
	var s strings.Builder

	if !st.Connected {
		s.WriteString(disconnectedStyle.Render("Connect a CRM on the Connection tab before adding leads."))
		s.WriteString("\n\n")
	}

	s.WriteString(sectionStyle.Render("New lead"))
	s.WriteString("\n\n")
	s.WriteString(renderInputs(m.leadInputs, leadLabels, m.formFocus, m.editing && m.activeForm == leadForm))
	s.WriteString("\n")

	s.WriteString(sectionStyle.Render("New deal"))
	s.WriteString("\n\n")
	s.WriteString(renderInputs(m.dealInputs, dealLabels, m.formFocus, m.editing && m.activeForm == dealForm))

	help := "i: lead form • d: deal form • 1-5: tabs • q: quit"
	if m.editing {
		help = "tab: next field • enter: submit • esc: cancel"
		if m.activeForm == leadForm {
			help = "tab: next field • enter: create • ctrl+u: create or update • esc: cancel"
		}
	}
	s.WriteString(helpStyle.Render(help))
	return s.String()
}
