package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadgen/models"
)

func TestCRMStatusAndConnect(t *testing.T) {
	_, c := newMockBackend(t)
	ctx := context.Background()

	status, err := c.CRMStatus(ctx, models.ProviderZoho)
	require.NoError(t, err)
	assert.False(t, status.Connected)

	conn, err := c.ConnectCRM(ctx, models.ProviderZoho, ConnectRequest{AccessToken: "invalid"})
	require.NoError(t, err)
	assert.False(t, conn.Connected)
	assert.Equal(t, "Invalid access token", conn.Message)

	conn, err = c.ConnectCRM(ctx, models.ProviderZoho, ConnectRequest{AccessToken: "pat-123"})
	require.NoError(t, err)
	assert.True(t, conn.Connected)

	status, err = c.CRMStatus(ctx, models.ProviderZoho)
	require.NoError(t, err)
	assert.True(t, status.Connected)

	// Connection state is tracked per provider.
	status, err = c.CRMStatus(ctx, models.ProviderHubSpot)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestCRMUnknownProvider(t *testing.T) {
	_, c := newMockBackend(t)

	_, err := c.CRMStatus(context.Background(), models.Provider("pipedrive"))
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestCreateLead(t *testing.T) {
	backend, c := newMockBackend(t)
	ctx := context.Background()

	resp, err := c.CreateLead(ctx, models.ProviderHubSpot, models.Lead{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "CRM not connected", resp.Error)

	backend.SetConnected(models.ProviderHubSpot, true)

	resp, err = c.CreateLead(ctx, models.ProviderHubSpot, models.Lead{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ContactID)

	_, err = c.CreateLead(ctx, models.ProviderHubSpot, models.Lead{FirstName: "No email"})
	require.Error(t, err)
	assert.Equal(t, "field required", DetailOr(err, ""))

	found, err := c.SearchContacts(ctx, models.ProviderHubSpot, "lovelace", 20)
	require.NoError(t, err)
	assert.True(t, found.Success)
	require.Len(t, found.Contacts, 1)
	assert.Equal(t, "ada@example.com", found.Contacts[0].Email)
}

func TestUpsertAndBatchLeads(t *testing.T) {
	backend, c := newMockBackend(t)
	backend.SetConnected(models.ProviderSalesforce, true)
	ctx := context.Background()

	resp, err := c.UpsertLead(ctx, models.ProviderSalesforce, models.Lead{Email: "a@b.co"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	batch, err := c.CreateLeadsBatch(ctx, models.ProviderSalesforce, []models.Lead{
		{Email: "one@example.com", Company: "One"},
		{Company: "No Email"},
		{Email: "two@example.com", Company: "Two"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 2, batch.Created)
	assert.Equal(t, 1, batch.Failed)
}

func TestCreateDeal(t *testing.T) {
	backend, c := newMockBackend(t)
	backend.SetConnected(models.ProviderHubSpot, true)

	resp, err := c.CreateDeal(context.Background(), models.ProviderHubSpot, models.Deal{
		DealName:  "Annual plan",
		DealStage: models.DefaultDealStage,
		Amount:    "1200",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.DealID)
}

func TestSearchContactsUsesQueryString(t *testing.T) {
	var got *http.Request
	var body []byte
	c := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		got = req
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
		}
		return jsonResponse(http.StatusOK, `{"success":true,"contacts":[]}`), nil
	})

	_, err := c.SearchContacts(context.Background(), models.ProviderHubSpot, "acme", 20)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/hubspot/contacts/search", got.URL.Path)
	assert.Equal(t, "acme", got.URL.Query().Get("query"))
	assert.Equal(t, "20", got.URL.Query().Get("limit"))
	assert.Empty(t, body)
}

func TestLeadWireFormat(t *testing.T) {
	var sent map[string]any
	c := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		return jsonResponse(http.StatusOK, `{"success":true,"contact_id":"1"}`), nil
	})

	_, err := c.CreateLead(context.Background(), models.ProviderHubSpot, models.Lead{
		Email:     "ada@example.com",
		FirstName: "Ada",
		Zipcode:   "10001",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "ada@example.com", "firstname": "Ada", "zipcode": "10001"}, sent)
}

func TestEnrichment(t *testing.T) {
	_, c := newMockBackend(t)
	ctx := context.Background()

	res, err := c.Enrich(ctx, EnrichmentRequest{Name: "Acme", Website: "https://www.acme.example"})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "info@acme.example", res.Contacts[0].Email)

	batch, err := c.EnrichBatch(ctx, []EnrichmentRequest{
		{Name: "Acme", Website: "https://acme.example"},
		{Name: "Broken", Website: "not a url"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Total)
	assert.Equal(t, 1, batch.Successful)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Results, 2)

	health, err := c.EnrichmentHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "available", health.Status)
	require.NotNil(t, health.ModelName)
}

func TestBilling(t *testing.T) {
	backend, c := newMockBackend(t)
	backend.AddUser("tok", models.UserProfile{ID: 3, Email: "b@c.co", Name: "B", Credits: 40})
	ctx := context.Background()

	_, err := c.Credits(ctx)
	assert.True(t, IsUnauthorized(err))

	_, err = c.LoginGoogle(ctx, "tok")
	require.NoError(t, err)

	credits, err := c.Credits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, credits.Credits)

	// A signed-in search spends one credit.
	_, err = c.SearchNatural(ctx, "plumbers", 5)
	require.NoError(t, err)
	credits, err = c.Credits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 39, credits.Credits)

	checkout, err := c.Checkout(ctx, models.PackGrowth)
	require.NoError(t, err)
	assert.Contains(t, checkout.URL, "https://")

	_, err = c.Checkout(ctx, "mega")
	require.Error(t, err)
	assert.Equal(t, "Invalid credit pack", DetailOr(err, "Checkout failed"))
}
