package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadgen/actions"
	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/mockapi"
	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/session"
	"github.com/harperreed/leadgen/store"
)

func newTestModel(t *testing.T, opts Options) (Model, *mockapi.Server) {
	t.Helper()
	backend := mockapi.New(nil)
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	st := store.New()
	sess := session.NewManager(client, st, localstore.NewMemory(), nil)
	dash := actions.New(client, st, sess, nil)
	return NewModel(context.Background(), dash, opts), backend
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

// finish runs an action command and feeds its result back into the model.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	return m
}

func TestViewShowsHeaderAndTabs(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	view := m.View()

	for _, want := range []string{"LEAD GEN", "HUBSPOT", "Disconnected", "checking session", "Search", "Connection", "Billing"} {
		assert.Contains(t, view, want)
	}
}

func TestBootstrapWithoutSessionMakesNoRequest(t *testing.T) {
	m, backend := newTestModel(t, Options{})

	m, _ = press(t, m, m.bootstrap()())
	assert.True(t, m.booted)
	assert.Zero(t, backend.Hits("/api/v1/auth/me"))
	assert.Contains(t, m.View(), "Not signed in")
}

func TestTabSwitching(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("2"))
	assert.Equal(t, TabConnection, m.tab)
	assert.Contains(t, m.View(), "CRM provider")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabLeads, m.tab)

	m, _ = press(t, m, runes("1"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabBilling, m.tab)
}

func TestQuitCancelsContext(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
}

func TestTypingQWhileEditingDoesNotQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	require.True(t, m.editing)
	m = typeText(t, m, "q")

	assert.Equal(t, "q", m.searchInput.Value())
	assert.NoError(t, m.ctx.Err())
}

func TestSearchFromInput(t *testing.T) {
	m, backend := newTestModel(t, Options{})
	backend.SetBusinesses([]models.Business{
		{Name: "Blue Bottle", PlaceID: "a", FormattedAddress: "1 Main St", Website: "https://bluebottle.example"},
		{Name: "Joe Coffee", PlaceID: "b", FormattedAddress: "2 Main St"},
	})

	m, _ = press(t, m, runes("/"))
	m = typeText(t, m, "coffee in nyc")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	m = finish(t, m, cmd)

	st := m.state()
	assert.Equal(t, "coffee in nyc", st.SearchQuery)
	assert.Len(t, st.SearchResults, 2)

	view := m.View()
	assert.Contains(t, view, "Blue Bottle")
	assert.Contains(t, view, "Found 2 businesses")

	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 1, m.selectedRow)
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 1, m.selectedRow)

	m, _ = press(t, m, runes("c"))
	assert.Empty(t, m.state().SearchResults)
	assert.Equal(t, "coffee in nyc", m.state().SearchQuery)
}

func TestEmptySearchShowsWarning(t *testing.T) {
	m, backend := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Zero(t, backend.TotalHits())
	assert.Contains(t, m.View(), "Please enter a search query")
}

func TestEnrichThenExportLeads(t *testing.T) {
	m, backend := newTestModel(t, Options{})
	backend.SetBusinesses([]models.Business{{Name: "Blue Bottle", PlaceID: "a", Website: "https://www.bluebottle.example"}})
	backend.SetConnected(models.ProviderHubSpot, true)
	m.dash.Store().SetConnected(true)

	m, _ = press(t, m, runes("/"))
	m = typeText(t, m, "coffee")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	m, cmd = press(t, m, runes("e"))
	m = finish(t, m, cmd)
	assert.Equal(t, "info@bluebottle.example", m.emails["a"])
	assert.Contains(t, m.View(), "info@bluebottle.example")

	m, cmd = press(t, m, runes("l"))
	m = finish(t, m, cmd)
	assert.Equal(t, 1, backend.Hits("/api/v1/hubspot/leads/batch"))
	assert.Contains(t, m.View(), "Created 1 of 1 leads")
}

func TestDismissNotification(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.dash.Store().SetMessage("hello there", store.SeverityInfo)
	assert.Contains(t, m.View(), "hello there")

	m, _ = press(t, m, runes("x"))
	assert.Nil(t, m.state().Notification)
	assert.NotContains(t, m.View(), "hello there")
}

func TestCycleProviderResetsConnection(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.dash.Store().SetConnected(true)

	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, models.ProviderZoho, m.state().Provider)
	assert.False(t, m.state().Connected)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, models.ProviderSalesforce, m.state().Provider)
}

func TestConnectFromForm(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runes("2"))
	m, _ = press(t, m, runes("i"))
	m = typeText(t, m, "pat-123")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.True(t, m.state().Connected)
	assert.Empty(t, m.connInputs[0].Value())
	assert.Contains(t, m.View(), "Connected to HUBSPOT")
}

func TestLeadFormRequiresConnection(t *testing.T) {
	m, backend := newTestModel(t, Options{})

	m, _ = press(t, m, runes("3"))
	m, _ = press(t, m, runes("i"))
	m = typeText(t, m, "jane@example.com")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Zero(t, backend.TotalHits())
	assert.Contains(t, m.View(), "Please connect to CRM first")
	assert.Equal(t, "jane@example.com", m.leadInputs[0].Value())
}

func TestLeadFormCreatesLead(t *testing.T) {
	m, backend := newTestModel(t, Options{})
	backend.SetConnected(models.ProviderHubSpot, true)
	m.dash.Store().SetConnected(true)

	m, _ = press(t, m, runes("3"))
	m, _ = press(t, m, runes("i"))
	m = typeText(t, m, "jane@example.com")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Jane")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Equal(t, 1, backend.Hits("/api/v1/hubspot/leads"))
	assert.Contains(t, m.View(), "Lead created successfully!")
	assert.Empty(t, m.leadInputs[0].Value())
	assert.Empty(t, m.leadInputs[1].Value())
}

func TestDealFormCreatesDeal(t *testing.T) {
	m, backend := newTestModel(t, Options{})
	backend.SetConnected(models.ProviderHubSpot, true)
	m.dash.Store().SetConnected(true)

	m, _ = press(t, m, runes("3"))
	m, _ = press(t, m, runes("d"))
	assert.Equal(t, dealForm, m.activeForm)
	m = typeText(t, m, "Espresso machines")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Equal(t, 1, backend.Hits("/api/v1/hubspot/deals"))
	assert.Contains(t, m.View(), "Deal created successfully!")
	assert.Empty(t, m.dealInputs[0].Value())
}

func TestContactSearch(t *testing.T) {
	m, backend := newTestModel(t, Options{})
	backend.SetConnected(models.ProviderHubSpot, true)
	backend.SetContacts([]models.Contact{
		{Name: "Jane Doe", Email: "jane@example.com", Company: "Acme"},
		{Name: "Sam Roe", Email: "sam@example.com"},
	})
	m.dash.Store().SetConnected(true)

	m, _ = press(t, m, runes("4"))
	m, _ = press(t, m, runes("/"))
	m = typeText(t, m, "jane")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	require.Len(t, m.contacts, 1)
	view := m.View()
	assert.Contains(t, view, "Jane Doe")
	assert.NotContains(t, view, "Sam Roe")
}

func TestBillingSignInAndCheckout(t *testing.T) {
	var opened string
	m, backend := newTestModel(t, Options{
		IDTokenSource: func(context.Context) (string, error) { return "google-token", nil },
		OpenURL: func(url string) error {
			opened = url
			return nil
		},
	})
	backend.AddUser("google-token", models.UserProfile{ID: 7, Email: "jane@example.com", Name: "Jane", Credits: 12})

	m, _ = press(t, m, runes("5"))
	assert.Contains(t, m.View(), "Not signed in")

	m, cmd := press(t, m, runes("g"))
	m = finish(t, m, cmd)
	require.NotNil(t, m.state().User)

	view := m.View()
	assert.Contains(t, view, "jane@example.com")
	assert.Contains(t, view, "12 credits")
	assert.Contains(t, view, "Buy 500 - $20")

	m, _ = press(t, m, runes("j"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)
	assert.True(t, strings.HasPrefix(opened, "https://checkout.example.com/pay/"))
	assert.Contains(t, m.View(), "Checkout opened in your browser")

	m, cmd = press(t, m, runes("o"))
	m = finish(t, m, cmd)
	assert.Nil(t, m.state().User)
	assert.Contains(t, m.View(), "Signed out")
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	m, backend := newTestModel(t, Options{})

	m, _ = press(t, m, runes("5"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, backend.TotalHits())
	assert.Contains(t, m.View(), "Sign in to buy credits")
}

func TestCreditsLabel(t *testing.T) {
	assert.Equal(t, "1 credit", creditsLabel(1))
	assert.Equal(t, "0 credits", creditsLabel(0))
	assert.Equal(t, "250 credits", creditsLabel(250))
}

func TestWatchStoreForwardsChanges(t *testing.T) {
	st := store.New()
	msgs := make(chan tea.Msg, 8)
	stop := WatchStore(st, func(msg tea.Msg) { msgs <- msg })

	st.SetProvider(models.ProviderZoho)
	select {
	case msg := <-msgs:
		assert.IsType(t, StoreChangedMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("no message after store change")
	}

	stop()
	stop()
	st.SetConnected(true)
	select {
	case <-msgs:
		t.Fatal("message after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreChangedRepaintsFromStore(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.dash.Store().SetMessage("Lead created successfully!", store.SeveritySuccess)

	updated, cmd := m.Update(StoreChangedMsg{})
	assert.Nil(t, cmd)
	assert.Contains(t, updated.View(), "Lead created successfully!")
}
