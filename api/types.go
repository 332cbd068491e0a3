package api

import (
	"encoding/json"
	"errors"

	"github.com/harperreed/leadgen/models"
)

// validator is implemented by responses that need more than a JSON decode to
// be considered well-formed.
type validator interface {
	validate() error
}

type SearchResults struct {
	TotalResults int               `json:"total_results"`
	Results      []models.Business `json:"results"`
	// Query echoes the backend's interpretation of the request; its shape
	// differs between search and import so it stays opaque.
	Query json.RawMessage `json:"query,omitempty"`
}

// ImportResult is the converted file returned by the import upload.
type ImportResult struct {
	Data     SearchResults
	Raw      []byte
	Filename string
}

type CRMConnection struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
	PortalID  string `json:"portal_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ConnectRequest struct {
	AccessToken  string `json:"access_token"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type LeadResponse struct {
	Success   bool            `json:"success"`
	ContactID string          `json:"contact_id,omitempty"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type batchLeadsRequest struct {
	Leads []models.Lead `json:"leads"`
}

type BatchLeadsResponse struct {
	Success bool   `json:"success"`
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Failed  int    `json:"failed"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type DealResponse struct {
	Success bool            `json:"success"`
	DealID  string          `json:"deal_id,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type ContactSearchResponse struct {
	Success  bool             `json:"success"`
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type EnrichmentRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Address string `json:"address,omitempty"`
}

type batchEnrichmentRequest struct {
	Businesses []EnrichmentRequest `json:"businesses"`
}

type EnrichmentResponse struct {
	Name                 string           `json:"name"`
	Website              string           `json:"website"`
	Contacts             []models.Contact `json:"contacts"`
	Confidence           float64          `json:"confidence"`
	ScrapedContentLength int              `json:"scraped_content_length"`
	Status               string           `json:"status"`
}

type BatchEnrichmentResponse struct {
	Total      int                  `json:"total"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Results    []EnrichmentResponse `json:"results"`
}

type EnrichmentHealth struct {
	Status          string   `json:"status,omitempty"`
	Service         string   `json:"service,omitempty"`
	ModelName       *string  `json:"model_name,omitempty"`
	PreferredModels []string `json:"preferred_models,omitempty"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type AuthResponse struct {
	User *models.UserProfile `json:"user"`
}

func (r *AuthResponse) validate() error {
	if r.User == nil {
		return errors.New("missing user")
	}
	if r.User.Credits < 0 {
		return errors.New("negative credit balance")
	}
	return nil
}

type StatusResponse struct {
	Status string `json:"status"`
}

type CreditsResponse struct {
	Credits int `json:"credits"`
}

func (r *CreditsResponse) validate() error {
	if r.Credits < 0 {
		return errors.New("negative credit balance")
	}
	return nil
}

type checkoutRequest struct {
	PackID string `json:"pack_id"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
