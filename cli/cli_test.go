// ABOUTME: Tests for the CLI commands
// ABOUTME: Runs each command against the mock backend with in-memory storage
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadgen/config"
	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/logging"
	"github.com/harperreed/leadgen/mockapi"
	"github.com/harperreed/leadgen/models"
)

type testEnv struct {
	backend *mockapi.Server
	url     string
	storage localstore.Storage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := mockapi.New(nil)
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return &testEnv{backend: backend, url: srv.URL, storage: localstore.NewMemory()}
}

// app builds a fresh App over the shared storage, like a new CLI invocation.
func (e *testEnv) app(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.APIBaseURL = e.url

	app, err := Assemble(cfg, e.storage, logging.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app.Out = out
	app.In = strings.NewReader("")
	app.Bootstrap(context.Background())
	return app, out
}

func TestSearchCommandPrintsTable(t *testing.T) {
	env := newTestEnv(t)
	rating := 4.7
	env.backend.SetBusinesses([]models.Business{
		{Name: "Blue Bottle", PlaceID: "a", FormattedAddress: "1 Main St", Website: "https://bluebottle.example", Rating: &rating},
		{Name: "Joe Coffee", PlaceID: "b"},
	})
	app, out := env.app(t)

	err := SearchCommand(context.Background(), app, []string{"--emails", "coffee", "in", "nyc"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "✓ Found 2 businesses")
	assert.Contains(t, text, "EMAIL")
	assert.Contains(t, text, "info@bluebottle.example")
	assert.Contains(t, text, "4.7")
	assert.Equal(t, "coffee in nyc", app.Store.State().SearchQuery)
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := SearchCommand(context.Background(), app, nil)
	require.Error(t, err)
	assert.Equal(t, "Please enter a search query", err.Error())
	assert.Zero(t, env.backend.TotalHits())
}

func TestSearchCommandExport(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetBusinesses([]models.Business{{Name: "Blue Bottle", PlaceID: "a", Website: "https://bluebottle.example"}})
	env.backend.SetConnected(models.ProviderHubSpot, true)
	app, out := env.app(t)

	err := SearchCommand(context.Background(), app, []string{"--export", "coffee"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created 1 of 1 leads")
	assert.Equal(t, 1, env.backend.Hits("/api/v1/hubspot/leads/batch"))
}

func TestSearchCommandExportWithJSON(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetBusinesses([]models.Business{{Name: "Blue Bottle", PlaceID: "a", Website: "https://bluebottle.example"}})
	env.backend.SetConnected(models.ProviderHubSpot, true)
	app, out := env.app(t)

	err := SearchCommand(context.Background(), app, []string{"--export", "--json", "coffee"})
	require.NoError(t, err)
	assert.Equal(t, 1, env.backend.Hits("/api/v1/hubspot/leads/batch"))

	var got searchOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Results, 1)
	assert.Equal(t, "info@bluebottle.example", got.Emails["a"])
	require.NotNil(t, got.Export)
	assert.Equal(t, 1, got.Export.Created)
}

func TestSearchCommandExportWithJSONNotConnected(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetBusinesses([]models.Business{{Name: "Blue Bottle", PlaceID: "a", Website: "https://bluebottle.example"}})
	app, out := env.app(t)

	err := SearchCommand(context.Background(), app, []string{"--export", "--json", "coffee"})
	require.Error(t, err)
	assert.Zero(t, env.backend.Hits("/api/v1/hubspot/leads/batch"))
	assert.Empty(t, out.String())
}

func TestImportCommand(t *testing.T) {
	env := newTestEnv(t)
	app, out := env.app(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"title":"Abraço","placeId":"p1","address":"81 E 7th St"}]`), 0600))
	outDir := t.TempDir()

	err := ImportCommand(context.Background(), app, []string{"--out", outDir, src})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Imported 1 businesses")
	assert.Contains(t, out.String(), "Abraço")
	assert.FileExists(t, filepath.Join(outDir, "converted_businesses.json"))

	err = ImportCommand(context.Background(), app, nil)
	assert.Error(t, err)
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("google-token", models.UserProfile{ID: 3, Email: "jane@example.com", Name: "Jane", Credits: 9})

	app, out := env.app(t)
	require.NoError(t, AuthLoginCommand(context.Background(), app, []string{"--id-token", "google-token"}))
	assert.Contains(t, out.String(), "✓ Signed in successfully")
	assert.Contains(t, out.String(), "Signed in as Jane <jane@example.com>")

	next, nextOut := env.app(t)
	require.NoError(t, WhoamiCommand(context.Background(), next, nil))
	assert.Contains(t, nextOut.String(), "jane@example.com")
	assert.Contains(t, nextOut.String(), "Credits: 9")

	require.NoError(t, AuthLogoutCommand(context.Background(), next, nil))
	assert.Contains(t, nextOut.String(), "Signed out")

	last, lastOut := env.app(t)
	require.NoError(t, WhoamiCommand(context.Background(), last, nil))
	assert.Contains(t, lastOut.String(), "Not signed in")
}

func TestLoginWithTokenFromStdin(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("piped", models.UserProfile{ID: 4, Email: "sam@example.com", Name: "Sam"})
	app, out := env.app(t)
	app.In = strings.NewReader("piped\n")

	require.NoError(t, AuthLoginCommand(context.Background(), app, []string{"--id-token", "-"}))
	assert.Contains(t, out.String(), "sam@example.com")
}

func TestLoginWithoutGoogleCredentials(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := AuthLoginCommand(context.Background(), app, nil)
	assert.ErrorIs(t, err, ErrNoGoogleCredentials)
}

func TestLoginRejected(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := AuthLoginCommand(context.Background(), app, []string{"--id-token", "unknown"})
	require.Error(t, err)
	assert.Equal(t, "Invalid Google token", err.Error())
}

func TestCRMConnectReadsTokenFromInput(t *testing.T) {
	env := newTestEnv(t)
	app, out := env.app(t)
	app.In = strings.NewReader("pat-secret\n")

	require.NoError(t, CRMConnectCommand(context.Background(), app, []string{"--provider", "zoho"}))
	assert.Contains(t, out.String(), "✓ Successfully connected to zoho!")

	next, nextOut := env.app(t)
	require.NoError(t, CRMStatusCommand(context.Background(), next, []string{"--provider", "zoho"}))
	assert.Contains(t, nextOut.String(), "Connected to zoho!")
}

func TestCRMConnectInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := CRMConnectCommand(context.Background(), app, []string{"--token", "invalid"})
	require.Error(t, err)
	assert.Equal(t, "Invalid access token", err.Error())
}

func TestAddLeadRequiresConnection(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := AddLeadCommand(context.Background(), app, []string{"--email", "jane@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Please connect to CRM first", err.Error())
	assert.Zero(t, env.backend.Hits("/api/v1/hubspot/leads"))
}

func TestLeadDealAndContacts(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetConnected(models.ProviderHubSpot, true)
	app, out := env.app(t)

	require.NoError(t, AddLeadCommand(context.Background(), app, []string{"--email", "jane@example.com", "--first", "Jane", "--last", "Doe", "--company", "Acme"}))
	assert.Contains(t, out.String(), "✓ Lead created successfully!")

	require.NoError(t, UpsertLeadCommand(context.Background(), app, []string{"--email", "jane@example.com", "--phone", "555-0100"}))
	assert.Contains(t, out.String(), "✓ Lead updated successfully!")

	require.NoError(t, AddDealCommand(context.Background(), app, []string{"--name", "Espresso machines", "--amount", "5000"}))
	assert.Contains(t, out.String(), "✓ Deal created successfully!")

	out.Reset()
	require.NoError(t, ContactsCommand(context.Background(), app, []string{"jane"}))
	assert.Contains(t, out.String(), "Jane Doe")
	assert.Contains(t, out.String(), "Found")
}

func TestContactsRequiresQueryBeforeConnection(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)

	err := ContactsCommand(context.Background(), app, nil)
	require.Error(t, err)
	assert.Equal(t, "Please enter a search query", err.Error())
	assert.Zero(t, env.backend.TotalHits())
}

func TestEnrichCommand(t *testing.T) {
	env := newTestEnv(t)
	app, out := env.app(t)

	require.NoError(t, EnrichCommand(context.Background(), app, []string{"--name", "Acme", "--website", "https://www.acme.example"}))
	assert.Contains(t, out.String(), "info@acme.example")
	assert.Contains(t, out.String(), "Confidence: 80%")

	err := EnrichCommand(context.Background(), app, []string{"--name", "Acme"})
	require.Error(t, err)
	assert.Equal(t, "Business name and website are required", err.Error())
}

func TestBillingCommands(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("tok", models.UserProfile{ID: 5, Email: "pat@example.com", Name: "Pat", Credits: 3})
	app, out := env.app(t)

	assert.ErrorIs(t, CreditsCommand(context.Background(), app, nil), errNotSignedIn)
	assert.ErrorIs(t, CheckoutCommand(context.Background(), app, nil), errNotSignedIn)

	require.NoError(t, AuthLoginCommand(context.Background(), app, []string{"--id-token", "tok"}))
	out.Reset()

	require.NoError(t, CreditsCommand(context.Background(), app, nil))
	assert.Contains(t, out.String(), "Credits: 3")

	require.NoError(t, CheckoutCommand(context.Background(), app, []string{"--pack", "growth", "--no-browser"}))
	assert.Contains(t, out.String(), "https://checkout.example.com/pay/")

	err := CheckoutCommand(context.Background(), app, []string{"--pack", "mega", "--no-browser"})
	require.Error(t, err)
	assert.Equal(t, "Unknown credit pack", err.Error())

	out.Reset()
	require.NoError(t, CheckoutReturnCommand(context.Background(), app, []string{"cancel"}))
	assert.Contains(t, out.String(), "Checkout canceled.")

	assert.Error(t, CheckoutReturnCommand(context.Background(), app, []string{"maybe"}))
}

func TestMCPServerListsAndCallsTools(t *testing.T) {
	env := newTestEnv(t)
	app, _ := env.app(t)
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewMCPServer(app, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"search_businesses", "enrich_business", "check_crm_connection",
		"create_lead", "create_deal", "search_crm_contacts", "get_credits",
	}, names)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "get_credits", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "search_businesses", Arguments: map[string]any{"query": ""}})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
