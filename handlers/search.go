// ABOUTME: Search and enrichment MCP tools
// ABOUTME: Implements search_businesses and enrich_business
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/leadgen/models"
)

type SearchBusinessesInput struct {
	Query      string `json:"query" jsonschema:"Natural language description of the businesses to find (required)"`
	FindEmails bool   `json:"find_emails,omitempty" jsonschema:"Also look up a contact email on each result's website"`
}

type BusinessOutput struct {
	Name     string   `json:"name"`
	PlaceID  string   `json:"place_id"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Reviews  *int     `json:"reviews,omitempty"`
	Email    string   `json:"email,omitempty"`
	MapsURL  string   `json:"maps_url,omitempty"`
	Category string   `json:"category,omitempty"`
}

type SearchBusinessesOutput struct {
	Message string           `json:"message"`
	Results []BusinessOutput `json:"results"`
}

func (h *Handlers) SearchBusinesses(ctx context.Context, request *mcp.CallToolRequest, input SearchBusinessesInput) (*mcp.CallToolResult, SearchBusinessesOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	results, err := h.dash.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchBusinessesOutput{}, h.toolError(err)
	}
	message := h.message()

	var emails map[string]string
	if input.FindEmails && len(results) > 0 {
		// Missing emails are not fatal; the search already succeeded.
		if found, err := h.dash.EnrichResults(ctx); err == nil {
			emails = found
			message = fmt.Sprintf("%s. %s", message, h.message())
		}
	}

	out := SearchBusinessesOutput{Message: message, Results: make([]BusinessOutput, 0, len(results))}
	for _, b := range results {
		out.Results = append(out.Results, businessToOutput(b, emails[b.PlaceID]))
	}
	return nil, out, nil
}

func businessToOutput(b models.Business, email string) BusinessOutput {
	category := b.PrimaryType
	if category == "" && len(b.Types) > 0 {
		category = b.Types[0]
	}
	return BusinessOutput{
		Name:     b.Name,
		PlaceID:  b.PlaceID,
		Address:  b.FormattedAddress,
		Phone:    b.FormattedPhoneNumber,
		Website:  b.Website,
		Rating:   b.Rating,
		Reviews:  b.UserRatingTotal,
		Email:    email,
		MapsURL:  b.GoogleMapsURL,
		Category: category,
	}
}

type EnrichBusinessInput struct {
	Name    string `json:"name" jsonschema:"Business name (required)"`
	Website string `json:"website" jsonschema:"Business website URL (required)"`
	Address string `json:"address,omitempty" jsonschema:"Street address, improves matching"`
}

type ContactOutput struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	LinkedIn string `json:"linkedin_url,omitempty"`
}

type EnrichBusinessOutput struct {
	Message    string          `json:"message"`
	Confidence float64         `json:"confidence"`
	Contacts   []ContactOutput `json:"contacts"`
}

func (h *Handlers) EnrichBusiness(ctx context.Context, request *mcp.CallToolRequest, input EnrichBusinessInput) (*mcp.CallToolResult, EnrichBusinessOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	resp, err := h.dash.Enrich(ctx, input.Name, input.Website, input.Address)
	if err != nil {
		return nil, EnrichBusinessOutput{}, h.toolError(err)
	}

	out := EnrichBusinessOutput{
		Message:    h.message(),
		Confidence: resp.Confidence,
		Contacts:   contactsToOutput(resp.Contacts),
	}
	return nil, out, nil
}

func contactsToOutput(contacts []models.Contact) []ContactOutput {
	out := make([]ContactOutput, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactOutput{
			Name:     c.Name,
			Title:    c.Title,
			Email:    c.Email,
			Phone:    c.Phone,
			Company:  c.Company,
			LinkedIn: c.LinkedInURL,
		})
	}
	return out
}
