// ABOUTME: Terminal dashboard built on bubbletea
// ABOUTME: Tabs for search, CRM connection, leads, contacts, and billing over the shared store
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/leadgen/actions"
	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/session"
	"github.com/harperreed/leadgen/store"
)

// Tab is the dashboard page on screen.
type Tab int

const (
	TabSearch Tab = iota
	TabConnection
	TabLeads
	TabContacts
	TabBilling
)

var tabNames = []string{"Search", "Connection", "Leads", "Contacts", "Billing"}

type Options struct {
	// IDTokenSource runs the Google sign-in and returns an ID token.
	IDTokenSource func(ctx context.Context) (string, error)
	// OpenURL opens checkout pages.
	OpenURL func(url string) error
}

// Model is the main bubbletea model
type Model struct {
	dash   *actions.Dashboard
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	tab     Tab
	editing bool
	booted  bool
	spinner spinner.Model

	// Search tab
	searchInput textinput.Model
	selectedRow int
	emails      map[string]string

	// Connection tab
	connInputs []textinput.Model
	connFocus  int
	enrichInfo *api.EnrichmentHealth

	// Leads tab
	leadInputs []textinput.Model
	dealInputs []textinput.Model
	activeForm formKind
	formFocus  int

	// Contacts tab
	contactInput    textinput.Model
	contacts        []models.Contact
	selectedContact int

	// Billing tab
	selectedPack int

	width  int
	height int
}

// NewModel creates a dashboard over d. The context bounds every request the
// dashboard makes; quitting cancels it.
func NewModel(ctx context.Context, d *actions.Dashboard, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := Model{
		dash:    d,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		tab:     TabSearch,
		spinner: sp,
		width:   100,
		height:  30,
	}
	m.initSearchInput()
	m.initConnectionInputs()
	m.initLeadForms()
	m.initContactInput()
	return m
}

// bootstrapDoneMsg is sent when the startup session check finishes.
type bootstrapDoneMsg struct {
	outcome session.Outcome
}

// actionDoneMsg reports a finished dashboard action. The store already
// carries the user-facing notification.
type actionDoneMsg struct {
	action string
	err    error
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bootstrap(), m.loadEnrichmentInfo(), m.spinner.Tick)
}

func (m Model) bootstrap() tea.Cmd {
	dash, ctx := m.dash, m.ctx
	return func() tea.Msg {
		return bootstrapDoneMsg{outcome: dash.Bootstrap(ctx)}
	}
}

// run executes fn off the UI goroutine and reports back as actionDoneMsg.
func (m Model) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

func (m Model) state() store.State {
	return m.dash.Store().State()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case bootstrapDoneMsg:
		m.booted = true
		return m, nil
	case StoreChangedMsg:
		return m, nil
	case enrichInfoMsg:
		m.enrichInfo = msg.info
		return m, nil
	case contactsMsg:
		if msg.err == nil {
			m.contacts = msg.contacts
			m.selectedContact = 0
		}
		return m, nil
	case enrichedMsg:
		if msg.err == nil {
			m.emails = msg.emails
		}
		return m, nil
	case checkoutMsg:
		return m.handleCheckout(msg)
	case actionDoneMsg:
		return m.handleActionDone(msg)
	}
	return m, nil
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, nil
	}
	switch msg.action {
	case "search":
		m.selectedRow = 0
		m.emails = nil
	case "lead", "upsert":
		m.resetLeadForm()
	case "deal":
		m.resetDealForm()
	case "connect":
		m.connInputs[0].SetValue("")
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.editing {
		return m.handleEditingKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "1", "2", "3", "4", "5":
		m.tab = Tab(msg.String()[0] - '1')
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case "x", "esc":
		if m.state().Notification != nil {
			m.dash.Store().DismissNotification()
		}
		return m, nil
	}

	switch m.tab {
	case TabSearch:
		return m.handleSearchKeys(msg)
	case TabConnection:
		return m.handleConnectionKeys(msg)
	case TabLeads:
		return m.handleLeadsKeys(msg)
	case TabContacts:
		return m.handleContactsKeys(msg)
	case TabBilling:
		return m.handleBillingKeys(msg)
	}
	return m, nil
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabSearch:
		return m.handleSearchEditKeys(msg)
	case TabConnection:
		return m.handleConnectionEditKeys(msg)
	case TabLeads:
		return m.handleLeadsEditKeys(msg)
	case TabContacts:
		return m.handleContactsEditKeys(msg)
	}
	m.editing = false
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	st := m.state()

	s.WriteString(m.renderHeader(st))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if banner := m.renderNotification(st); banner != "" {
		s.WriteString(banner)
		s.WriteString("\n\n")
	}

	switch m.tab {
	case TabSearch:
		s.WriteString(m.renderSearchView(st))
	case TabConnection:
		s.WriteString(m.renderConnectionView(st))
	case TabLeads:
		s.WriteString(m.renderLeadsView(st))
	case TabContacts:
		s.WriteString(m.renderContactsView(st))
	case TabBilling:
		s.WriteString(m.renderBillingView(st))
	}

	return s.String()
}

func (m Model) renderHeader(st store.State) string {
	parts := []string{
		titleStyle.Render("LEAD GEN"),
		mutedStyle.Render("Provider: " + strings.ToUpper(string(st.Provider))),
	}
	if st.Connected {
		parts = append(parts, connectedStyle.Render("● Connected"))
	} else {
		parts = append(parts, disconnectedStyle.Render("● Disconnected"))
	}

	switch {
	case st.User != nil:
		parts = append(parts, mutedStyle.Render(st.User.Email), creditsStyle.Render(creditsLabel(st.Credits)))
	case !m.booted:
		parts = append(parts, mutedStyle.Render("checking session..."))
	default:
		parts = append(parts, mutedStyle.Render("Not signed in"))
	}

	if st.Loading {
		parts = append(parts, m.spinner.View()+" working")
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := string(rune('1'+i)) + " " + name
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderNotification(st store.State) string {
	n := st.Notification
	if n == nil {
		return ""
	}
	style, ok := bannerStyles[n.Severity]
	if !ok {
		style = bannerStyles[store.SeverityInfo]
	}
	return style.Render(n.Text + "  (x to dismiss)")
}

func creditsLabel(credits int) string {
	if credits == 1 {
		return "1 credit"
	}
	return fmt.Sprintf("%d credits", credits)
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

// focusInputs focuses inputs[idx] and blurs the rest.
func focusInputs(inputs []textinput.Model, idx int) tea.Cmd {
	var cmd tea.Cmd
	for i := range inputs {
		if i == idx {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}

func blurInputs(inputs []textinput.Model) {
	for i := range inputs {
		inputs[i].Blur()
	}
}

func renderInputs(inputs []textinput.Model, labels []string, focus int, active bool) string {
	var s strings.Builder
	for i, input := range inputs {
		if active && i == focus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(labelStyle.Render(labels[i]))
		s.WriteString(input.View())
		s.WriteString("\n")
	}
	return s.String()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(16)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9"))

	creditsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	bannerBase = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	bannerStyles = map[store.Severity]lipgloss.Style{
		store.SeveritySuccess: bannerBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		store.SeverityError:   bannerBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")),
		store.SeverityInfo:    bannerBase.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("39")),
		store.SeverityWarning: bannerBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
	}
)
