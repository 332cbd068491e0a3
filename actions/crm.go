package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

// SelectProvider switches CRM. The new provider starts disconnected until
// the backend confirms otherwise.
func (d *Dashboard) SelectProvider(p models.Provider) {
	d.store.SetProvider(p)
	d.store.SetConnected(false)
}

// CheckConnection asks the backend whether the selected provider is connected.
func (d *Dashboard) CheckConnection(ctx context.Context) (bool, error) {
	provider := d.store.State().Provider
	var connected bool

	err := d.track(func() error {
		resp, err := d.gw.CRMStatus(ctx, provider)
		if err != nil {
			d.store.SetConnected(false)
			return d.failed("connection check", err, "Failed to check connection")
		}

		connected = resp.Connected
		d.store.SetConnected(resp.Connected)
		if resp.Connected {
			d.store.SetMessage(fmt.Sprintf("Connected to %s!", provider), store.SeveritySuccess)
			return nil
		}
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("Not connected to %s", provider)
		}
		d.store.SetMessage(msg, store.SeverityInfo)
		return nil
	})
	return connected, err
}

// Connect submits credentials for the selected provider.
func (d *Dashboard) Connect(ctx context.Context, accessToken, clientID, clientSecret string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return d.invalid("Access token is required", store.SeverityError)
	}
	provider := d.store.State().Provider

	return d.track(func() error {
		resp, err := d.gw.ConnectCRM(ctx, provider, api.ConnectRequest{
			AccessToken:  accessToken,
			ClientID:     strings.TrimSpace(clientID),
			ClientSecret: strings.TrimSpace(clientSecret),
		})
		if err != nil {
			d.store.SetConnected(false)
			return d.failed("connect", err, "Connection failed")
		}
		if !resp.Connected {
			d.store.SetConnected(false)
			return d.rejected(resp.Message, "Connection failed")
		}

		d.store.SetConnected(true)
		d.store.SetMessage(fmt.Sprintf("Successfully connected to %s!", provider), store.SeveritySuccess)
		return nil
	})
}

// CreateLead adds one contact to the connected CRM.
func (d *Dashboard) CreateLead(ctx context.Context, lead models.Lead) (*api.LeadResponse, error) {
	return d.writeLead(ctx, lead, "Lead created successfully!", "Failed to create lead", d.gw.CreateLead)
}

// UpsertLead creates the contact or updates the one with the same email.
func (d *Dashboard) UpsertLead(ctx context.Context, lead models.Lead) (*api.LeadResponse, error) {
	return d.writeLead(ctx, lead, "Lead updated successfully!", "Failed to update lead", d.gw.UpsertLead)
}

type leadCall func(ctx context.Context, provider models.Provider, lead models.Lead) (*api.LeadResponse, error)

func (d *Dashboard) writeLead(ctx context.Context, lead models.Lead, success, fallback string, call leadCall) (*api.LeadResponse, error) {
	if err := d.requireConnection(); err != nil {
		return nil, err
	}
	lead.Email = strings.TrimSpace(lead.Email)
	if lead.Email == "" {
		return nil, d.invalid("Email is required", store.SeverityError)
	}
	provider := d.store.State().Provider

	var out *api.LeadResponse
	err := d.track(func() error {
		resp, err := call(ctx, provider, lead)
		if err != nil {
			return d.failed("lead", err, fallback)
		}
		if !resp.Success {
			return d.rejected(resp.Error, fallback)
		}
		out = resp
		d.store.SetMessage(success, store.SeveritySuccess)
		return nil
	})
	return out, err
}

// CreateLeadsFromResults pushes every stored search result that has a known
// email into the CRM in one batch. emails maps place IDs to addresses found
// by enrichment.
func (d *Dashboard) CreateLeadsFromResults(ctx context.Context, emails map[string]string) (*api.BatchLeadsResponse, error) {
	if err := d.requireConnection(); err != nil {
		return nil, err
	}
	st := d.store.State()

	leads := make([]models.Lead, 0, len(st.SearchResults))
	for _, b := range st.SearchResults {
		email := emails[b.PlaceID]
		if email == "" {
			continue
		}
		lead := models.LeadFromBusiness(b)
		lead.Email = email
		leads = append(leads, lead)
	}
	if len(leads) == 0 {
		return nil, d.invalid("No results with an email address to export", store.SeverityWarning)
	}

	var out *api.BatchLeadsResponse
	err := d.track(func() error {
		resp, err := d.gw.CreateLeadsBatch(ctx, st.Provider, leads)
		if err != nil {
			return d.failed("batch leads", err, "Failed to create leads")
		}
		if !resp.Success {
			return d.rejected(resp.Error, "Failed to create leads")
		}
		out = resp
		d.store.SetMessage(fmt.Sprintf("Created %d of %d leads", resp.Created, resp.Total), store.SeveritySuccess)
		return nil
	})
	return out, err
}

// CreateDeal adds a deal to the connected CRM. An empty stage means
// negotiation.
func (d *Dashboard) CreateDeal(ctx context.Context, deal models.Deal) (*api.DealResponse, error) {
	if err := d.requireConnection(); err != nil {
		return nil, err
	}
	deal.DealName = strings.TrimSpace(deal.DealName)
	if deal.DealName == "" {
		return nil, d.invalid("Deal name is required", store.SeverityError)
	}
	if deal.DealStage == "" {
		deal.DealStage = models.DefaultDealStage
	}
	provider := d.store.State().Provider

	var out *api.DealResponse
	err := d.track(func() error {
		resp, err := d.gw.CreateDeal(ctx, provider, deal)
		if err != nil {
			return d.failed("deal", err, "Failed to create deal")
		}
		if !resp.Success {
			return d.rejected(resp.Error, "Failed to create deal")
		}
		out = resp
		d.store.SetMessage("Deal created successfully!", store.SeveritySuccess)
		return nil
	})
	return out, err
}

// SearchContacts looks up contacts already stored in the CRM.
func (d *Dashboard) SearchContacts(ctx context.Context, query string) ([]models.Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, d.invalid("Please enter a search query", store.SeverityWarning)
	}
	if err := d.requireConnection(); err != nil {
		return nil, err
	}
	provider := d.store.State().Provider

	var contacts []models.Contact
	err := d.track(func() error {
		resp, err := d.gw.SearchContacts(ctx, provider, query, ContactSearchLimit)
		if err != nil {
			return d.failed("contact search", err, "Search failed")
		}
		if !resp.Success {
			return d.rejected(resp.Error, "Search failed")
		}
		contacts = resp.Contacts
		if contacts == nil {
			contacts = []models.Contact{}
		}
		d.store.SetMessage(fmt.Sprintf("Found %d contacts", len(contacts)), store.SeveritySuccess)
		return nil
	})
	return contacts, err
}
