// ABOUTME: Connection tab for choosing a CRM and connecting to it
// ABOUTME: Also shows which extraction model the enrichment service runs
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

var connLabels = []string{"Access token:", "Client ID:", "Client secret:"}

type enrichInfoMsg struct {
	info *api.EnrichmentHealth
}

func (m *Model) initConnectionInputs() {
	m.connInputs = make([]textinput.Model, len(connLabels))
	m.connInputs[0] = newInput("pat-na1-...", 200)
	m.connInputs[0].EchoMode = textinput.EchoPassword
	m.connInputs[0].EchoCharacter = '•'
	m.connInputs[1] = newInput("optional", 200)
	m.connInputs[2] = newInput("optional", 200)
	m.connInputs[2].EchoMode = textinput.EchoPassword
	m.connInputs[2].EchoCharacter = '•'
}

func (m Model) loadEnrichmentInfo() tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		return enrichInfoMsg{info: dash.EnrichmentInfo(ctx)}
	}
}

func (m Model) handleConnectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m.cycleProvider(-1)
	case "right", "l":
		return m.cycleProvider(1)
	case "s":
		return m, m.run("status", func(ctx context.Context) error {
			_, err := m.dash.CheckConnection(ctx)
			return err
		})
	case "i", "enter":
		m.editing = true
		m.connFocus = 0
		return m, focusInputs(m.connInputs, 0)
	}
	return m, nil
}

func (m Model) cycleProvider(step int) (tea.Model, tea.Cmd) {
	current := m.state().Provider
	idx := 0
	for i, p := range models.Providers {
		if p == current {
			idx = i
			break
		}
	}
	n := len(models.Providers)
	m.dash.SelectProvider(models.Providers[(idx+step+n)%n])
	return m, nil
}

func (m Model) handleConnectionEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		blurInputs(m.connInputs)
		return m, nil
	case "tab", "down":
		m.connFocus = (m.connFocus + 1) % len(m.connInputs)
		return m, focusInputs(m.connInputs, m.connFocus)
	case "shift+tab", "up":
		m.connFocus = (m.connFocus + len(m.connInputs) - 1) % len(m.connInputs)
		return m, focusInputs(m.connInputs, m.connFocus)
	case "enter":
		m.editing = false
		blurInputs(m.connInputs)
		token := m.connInputs[0].Value()
		clientID := m.connInputs[1].Value()
		clientSecret := m.connInputs[2].Value()
		return m, m.run("connect", func(ctx context.Context) error {
			return m.dash.Connect(ctx, token, clientID, clientSecret)
		})
	}

	var cmd tea.Cmd
	m.connInputs[m.connFocus], cmd = m.connInputs[m.connFocus].Update(msg)
	return m, cmd
}

func (m Model) renderConnectionView(st store.State) string {
	var s strings.Builder

	s.WriteString(sectionStyle.Render("CRM provider"))
	s.WriteString("\n\n")
	for _, p := range models.Providers {
		label := strings.ToUpper(p.String())
		if p == st.Provider {
			s.WriteString(selectedStyle.Render(" " + label + " "))
		} else {
			s.WriteString(mutedStyle.Render(" " + label + " "))
		}
		s.WriteString(" ")
	}
	s.WriteString("\n\n")

	if st.Connected {
		s.WriteString(connectedStyle.Render("Connected to " + strings.ToUpper(st.Provider.String())))
	} else {
		s.WriteString(disconnectedStyle.Render("Not connected"))
	}
	s.WriteString("\n\n")

	s.WriteString(sectionStyle.Render("Credentials"))
	s.WriteString("\n\n")
	s.WriteString(renderInputs(m.connInputs, connLabels, m.connFocus, m.editing))
	s.WriteString("\n")

	s.WriteString(sectionStyle.Render("Enrichment"))
	s.WriteString("\n\n")
	s.WriteString(renderEnrichmentInfo(m.enrichInfo))
	s.WriteString("\n")

	help := "←/→: provider • i: enter credentials • s: check status • 1-5: tabs • q: quit"
	if m.editing {
		help = "tab: next field • enter: connect • esc: cancel"
	}
	s.WriteString(helpStyle.Render(help))
	return s.String()
}

func renderEnrichmentInfo(info *api.EnrichmentHealth) string {
	if info == nil {
		return mutedStyle.Render("Enrichment service unavailable") + "\n"
	}
	model := "unknown"
	if info.ModelName != nil && *info.ModelName != "" {
		model = *info.ModelName
	}
	var s strings.Builder
	s.WriteString(labelStyle.Render("Model:"))
	s.WriteString(model)
	s.WriteString("\n")
	if info.Status != "" {
		s.WriteString(labelStyle.Render("Status:"))
		s.WriteString(info.Status)
		s.WriteString("\n")
	}
	return s.String()
}
