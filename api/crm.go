package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/harperreed/leadgen/models"
)

// CRMStatus asks the backend whether the provider is connected.
func (c *Client) CRMStatus(ctx context.Context, provider models.Provider) (*CRMConnection, error) {
	var out CRMConnection
	if err := c.doJSON(ctx, http.MethodGet, providerPath(provider, "/status"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectCRM submits provider credentials.
func (c *Client) ConnectCRM(ctx context.Context, provider models.Provider, req ConnectRequest) (*CRMConnection, error) {
	var out CRMConnection
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/connection"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLead(ctx context.Context, provider models.Provider, lead models.Lead) (*LeadResponse, error) {
	var out LeadResponse
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/leads"), nil, lead, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLeadsBatch(ctx context.Context, provider models.Provider, leads []models.Lead) (*BatchLeadsResponse, error) {
	var out BatchLeadsResponse
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/leads/batch"), nil, batchLeadsRequest{Leads: leads}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertLead creates the lead or updates the CRM contact with the same email.
func (c *Client) UpsertLead(ctx context.Context, provider models.Provider, lead models.Lead) (*LeadResponse, error) {
	var out LeadResponse
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/leads/upsert"), nil, lead, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDeal(ctx context.Context, provider models.Provider, deal models.Deal) (*DealResponse, error) {
	var out DealResponse
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/deals"), nil, deal, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchContacts queries contacts already stored in the CRM. The backend takes
// the query in the URL even though the method is POST.
func (c *Client) SearchContacts(ctx context.Context, provider models.Provider, query string, limit int) (*ContactSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out ContactSearchResponse
	if err := c.doJSON(ctx, http.MethodPost, providerPath(provider, "/contacts/search"), params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
