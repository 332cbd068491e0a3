// ABOUTME: Data models for the lead generation backend
// ABOUTME: Defines Provider, UserProfile, Business, Contact, Lead, and Deal structs
package models

import (
	"fmt"
	"strings"
)

// Provider identifies the CRM system the user connects to.
type Provider string

const (
	ProviderHubSpot    Provider = "hubspot"
	ProviderZoho       Provider = "zoho"
	ProviderSalesforce Provider = "salesforce"
)

// DefaultProvider is selected until the user picks another one.
const DefaultProvider = ProviderHubSpot

// Providers lists every supported CRM in display order.
var Providers = []Provider{ProviderHubSpot, ProviderZoho, ProviderSalesforce}

// ParseProvider validates a provider name (case-insensitive).
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown CRM provider %q (want hubspot, zoho, or salesforce)", s)
}

func (p Provider) String() string {
	return string(p)
}

// UserProfile is the authenticated account returned by the auth endpoints.
type UserProfile struct {
	ID      int64   `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture,omitempty"`
	Credits int     `json:"credits"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Business is a search result. Values are passed through from the backend unchanged.
type Business struct {
	Name           string   `json:"name"`
	PlaceID        string   `json:"place_id"`
	Types          []string `json:"types"`
	PrimaryType    string   `json:"primary_type,omitempty"`
	BusinessStatus string   `json:"business_status,omitempty"`
	GoogleMapsURL  string   `json:"google_maps_url,omitempty"`

	FormattedAddress string  `json:"formatted_address,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Country          string  `json:"country,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`

	FormattedPhoneNumber     string `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string `json:"international_phone_number,omitempty"`
	Website                  string `json:"website,omitempty"`

	Rating          *float64      `json:"rating,omitempty"`
	UserRatingTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel      string        `json:"price_level,omitempty"`
	OpeningHours    *OpeningHours `json:"opening_hours,omitempty"`

	Photos []string `json:"photos,omitempty"`
}

// Contact is a person record produced by enrichment or a CRM contact search.
type Contact struct {
	Name            string   `json:"name"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	Title           string   `json:"title,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	MobilePhone     string   `json:"mobile_phone,omitempty"`
	Department      string   `json:"department,omitempty"`
	Company         string   `json:"company,omitempty"`
	Website         string   `json:"website,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Address         string   `json:"address,omitempty"`
	City            string   `json:"city,omitempty"`
	State           string   `json:"state,omitempty"`
	PostalCode      string   `json:"postal_code,omitempty"`
	Country         string   `json:"country,omitempty"`
	LinkedInURL     string   `json:"linkedin_url,omitempty"`
	TwitterURL      string   `json:"twitter_url,omitempty"`
	FacebookURL     string   `json:"facebook_url,omitempty"`
	InstagramURL    string   `json:"instagram_url,omitempty"`
	YouTubeURL      string   `json:"youtube_url,omitempty"`
	OtherSocialURLs []string `json:"other_social_urls,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// Lead is a contact to be created in the connected CRM.
type Lead struct {
	Email        string   `json:"email"`
	FirstName    string   `json:"firstname,omitempty"`
	LastName     string   `json:"lastname,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Company      string   `json:"company,omitempty"`
	Website      string   `json:"website,omitempty"`
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Country      string   `json:"country,omitempty"`
	Zipcode      string   `json:"zipcode,omitempty"`
	BusinessType string   `json:"business_type,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"review_count,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Deal stages accepted by the CRM deal form.
const (
	StageAppointmentScheduled = "appointmentscheduled"
	StageQualifiedToBuy       = "qualifiedtobuy"
	StagePresentation         = "presentationscheduled"
	StageDecisionMaker        = "decisionmakerboughtin"
	StageContractSent         = "contractsent"
	StageNegotiation          = "negotiation"
	StageClosedWon            = "closedwon"
	StageClosedLost           = "closedlost"
)

// DefaultDealStage is used when a deal is submitted without a stage.
const DefaultDealStage = StageNegotiation

type Deal struct {
	DealName    string `json:"dealname"`
	DealStage   string `json:"dealstage"`
	Amount      string `json:"amount,omitempty"`
	Description string `json:"description,omitempty"`
	ContactID   string `json:"contact_id,omitempty"`
}

// LeadFromBusiness maps a search result onto a CRM lead. The email is left
// for the caller to fill since search results do not carry one.
func LeadFromBusiness(b Business) Lead {
	lead := Lead{
		Company:      b.Name,
		Phone:        b.FormattedPhoneNumber,
		Website:      b.Website,
		Address:      b.FormattedAddress,
		City:         b.City,
		State:        b.State,
		Country:      b.Country,
		Zipcode:      b.PostalCode,
		BusinessType: b.PrimaryType,
		Rating:       b.Rating,
		ReviewCount:  b.UserRatingTotal,
	}
	if b.Latitude != 0 || b.Longitude != 0 {
		lat, lng := b.Latitude, b.Longitude
		lead.Latitude = &lat
		lead.Longitude = &lng
	}
	if lead.BusinessType == "" && len(b.Types) > 0 {
		lead.BusinessType = b.Types[0]
	}
	return lead
}

// Credit packs offered at checkout.
const (
	PackStarter = "starter"
	PackGrowth  = "growth"
	PackScale   = "scale"
)

// CreditPack describes a purchasable bundle. Prices are display-only; the
// backend owns the real amounts.
type CreditPack struct {
	ID      string
	Credits int
	Label   string
}

var CreditPacks = []CreditPack{
	{ID: PackStarter, Credits: 100, Label: "Buy 100 - $5"},
	{ID: PackGrowth, Credits: 500, Label: "Buy 500 - $20"},
	{ID: PackScale, Credits: 1000, Label: "Buy 1000 - $35"},
}

// FindCreditPack returns the pack with the given id.
func FindCreditPack(id string) (CreditPack, bool) {
	for _, p := range CreditPacks {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPack{}, false
}
