// ABOUTME: CRM MCP tools
// ABOUTME: Implements check_crm_connection, create_lead, create_deal, and search_crm_contacts
package handlers

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/leadgen/models"
)

type CheckConnectionInput struct {
	Provider string `json:"provider,omitempty" jsonschema:"CRM provider: hubspot, zoho, or salesforce (default: current)"`
}

type CheckConnectionOutput struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
	Message   string `json:"message,omitempty"`
}

func (h *Handlers) CheckCRMConnection(ctx context.Context, request *mcp.CallToolRequest, input CheckConnectionInput) (*mcp.CallToolResult, CheckConnectionOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if input.Provider != "" {
		p, err := models.ParseProvider(input.Provider)
		if err != nil {
			return nil, CheckConnectionOutput{}, err
		}
		h.dash.SelectProvider(p)
	}

	connected, err := h.dash.CheckConnection(ctx)
	if err != nil {
		return nil, CheckConnectionOutput{}, h.toolError(err)
	}
	return nil, CheckConnectionOutput{
		Provider:  h.dash.Store().State().Provider.String(),
		Connected: connected,
		Message:   h.message(),
	}, nil
}

type CreateLeadInput struct {
	Provider  string `json:"provider,omitempty" jsonschema:"CRM provider: hubspot, zoho, or salesforce (default: current)"`
	Email     string `json:"email" jsonschema:"Lead email address (required)"`
	FirstName string `json:"first_name,omitempty" jsonschema:"First name"`
	LastName  string `json:"last_name,omitempty" jsonschema:"Last name"`
	Phone     string `json:"phone,omitempty" jsonschema:"Phone number"`
	Company   string `json:"company,omitempty" jsonschema:"Company name"`
	Website   string `json:"website,omitempty" jsonschema:"Company website"`
	Update    bool   `json:"update,omitempty" jsonschema:"Update the contact if the email already exists"`
}

type CreateLeadOutput struct {
	ContactID string `json:"contact_id,omitempty"`
	Message   string `json:"message"`
}

func (h *Handlers) CreateLead(ctx context.Context, request *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, CreateLeadOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.useProvider(ctx, input.Provider); err != nil {
		return nil, CreateLeadOutput{}, err
	}

	lead := models.Lead{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Company:   input.Company,
		Website:   input.Website,
	}
	create := h.dash.CreateLead
	if input.Update {
		create = h.dash.UpsertLead
	}
	resp, err := create(ctx, lead)
	if err != nil {
		return nil, CreateLeadOutput{}, h.toolError(err)
	}
	return nil, CreateLeadOutput{ContactID: resp.ContactID, Message: h.message()}, nil
}

type CreateDealInput struct {
	Provider    string `json:"provider,omitempty" jsonschema:"CRM provider: hubspot, zoho, or salesforce (default: current)"`
	Name        string `json:"name" jsonschema:"Deal name (required)"`
	Stage       string `json:"stage,omitempty" jsonschema:"Pipeline stage (default: negotiation)"`
	Amount      string `json:"amount,omitempty" jsonschema:"Deal amount"`
	Description string `json:"description,omitempty" jsonschema:"Deal description"`
	ContactID   string `json:"contact_id,omitempty" jsonschema:"CRM contact to associate with the deal"`
}

type CreateDealOutput struct {
	DealID  string `json:"deal_id,omitempty"`
	Message string `json:"message"`
}

func (h *Handlers) CreateDeal(ctx context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, CreateDealOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.useProvider(ctx, input.Provider); err != nil {
		return nil, CreateDealOutput{}, err
	}

	resp, err := h.dash.CreateDeal(ctx, models.Deal{
		DealName:    input.Name,
		DealStage:   input.Stage,
		Amount:      input.Amount,
		Description: input.Description,
		ContactID:   input.ContactID,
	})
	if err != nil {
		return nil, CreateDealOutput{}, h.toolError(err)
	}
	return nil, CreateDealOutput{DealID: resp.DealID, Message: h.message()}, nil
}

type SearchContactsInput struct {
	Provider string `json:"provider,omitempty" jsonschema:"CRM provider: hubspot, zoho, or salesforce (default: current)"`
	Query    string `json:"query" jsonschema:"Name or email to search for (required)"`
}

type SearchContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *Handlers) SearchCRMContacts(ctx context.Context, request *mcp.CallToolRequest, input SearchContactsInput) (*mcp.CallToolResult, SearchContactsOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.useProvider(ctx, input.Provider); err != nil {
		return nil, SearchContactsOutput{}, err
	}

	contacts, err := h.dash.SearchContacts(ctx, input.Query)
	if err != nil {
		return nil, SearchContactsOutput{}, h.toolError(err)
	}
	return nil, SearchContactsOutput{Contacts: contactsToOutput(contacts)}, nil
}
