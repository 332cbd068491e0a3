package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harperreed/leadgen/models"
)

const defaultMaxResults = 50

func (s *Server) searchNatural(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeValidationError(w, "query")
		return
	}
	maxResults := defaultMaxResults
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "max_results must be a positive integer")
			return
		}
		maxResults = n
	}

	s.mu.Lock()
	results := append([]models.Business(nil), s.businesses...)
	if user := s.currentUser(r); user != nil && user.Credits > 0 {
		user.Credits--
	}
	s.mu.Unlock()

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	if results == nil {
		results = []models.Business{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_results": len(results),
		"results":       results,
		"query":         map[string]string{"query": query, "type": "natural_language"},
	})
}

// providerItem is the subset of a scraper export the converter understands.
type providerItem struct {
	Title        string   `json:"title"`
	PlaceID      string   `json:"placeId"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	CountryCode  string   `json:"countryCode"`
	PostalCode   string   `json:"postalCode"`
	Website      string   `json:"website"`
	Phone        string   `json:"phone"`
	CategoryName string   `json:"categoryName"`
	Categories   []string `json:"categories"`
	TotalScore   *float64 `json:"totalScore"`
	ReviewsCount *int     `json:"reviewsCount"`
	URL          string   `json:"url"`
	Location     *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

func (s *Server) importUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidationError(w, "file")
		return
	}
	defer func() { _ = file.Close() }()

	if name := strings.ToLower(header.Filename); name != "" && !strings.HasSuffix(name, ".json") {
		writeError(w, http.StatusBadRequest, "Please upload a .json file")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil || len(content) == 0 {
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	var items []providerItem
	if err := json.Unmarshal(content, &items); err != nil {
		writeError(w, http.StatusBadRequest, "Uploaded file is not valid JSON")
		return
	}

	results := make([]models.Business, 0, len(items))
	for _, item := range items {
		results = append(results, item.toBusiness())
	}

	payload, err := json.Marshal(map[string]any{
		"total_results": len(results),
		"results":       results,
		"query":         map[string]string{"type": "import"},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=converted_businesses.json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (p providerItem) toBusiness() models.Business {
	b := models.Business{
		Name:                 p.Title,
		PlaceID:              p.PlaceID,
		Types:                p.Categories,
		PrimaryType:          p.CategoryName,
		GoogleMapsURL:        p.URL,
		FormattedAddress:     p.Address,
		City:                 p.City,
		State:                p.State,
		Country:              p.CountryCode,
		PostalCode:           p.PostalCode,
		FormattedPhoneNumber: p.Phone,
		Website:              p.Website,
		Rating:               p.TotalScore,
		UserRatingTotal:      p.ReviewsCount,
	}
	if b.Types == nil {
		b.Types = []string{}
	}
	if p.Location != nil {
		b.Latitude = p.Location.Lat
		b.Longitude = p.Location.Lng
	}
	return b
}

func (s *Server) crmStatus(w http.ResponseWriter, r *http.Request) {
	provider := models.Provider(chi.URLParam(r, "provider"))

	s.mu.Lock()
	connected := s.connected[provider]
	s.mu.Unlock()

	if connected {
		writeJSON(w, http.StatusOK, map[string]any{
			"connected": true,
			"message":   fmt.Sprintf("Connected to %s", provider),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": false,
		"message":   fmt.Sprintf("Failed to connect to %s", provider),
		"error":     "No access token configured",
	})
}

func (s *Server) crmConnect(w http.ResponseWriter, r *http.Request) {
	provider := models.Provider(chi.URLParam(r, "provider"))

	var req struct {
		AccessToken  string `json:"access_token"`
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.AccessToken == "" {
		writeValidationError(w, "access_token")
		return
	}
	if req.AccessToken == "invalid" {
		writeJSON(w, http.StatusOK, map[string]any{
			"connected": false,
			"message":   "Invalid access token",
		})
		return
	}

	s.mu.Lock()
	s.connected[provider] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"connected": true,
		"message":   fmt.Sprintf("Connected to %s", provider),
	})
}

func (s *Server) isConnected(r *http.Request) bool {
	provider := models.Provider(chi.URLParam(r, "provider"))
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected[provider]
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	s.writeLead(w, r, "Contact created successfully")
}

func (s *Server) upsertLead(w http.ResponseWriter, r *http.Request) {
	s.writeLead(w, r, "Contact upserted successfully")
}

func (s *Server) writeLead(w http.ResponseWriter, r *http.Request, message string) {
	var lead models.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if lead.Email == "" {
		writeValidationError(w, "email")
		return
	}
	if !s.isConnected(r) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "CRM not connected"})
		return
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, models.Contact{
		Name:      strings.TrimSpace(lead.FirstName + " " + lead.LastName),
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Website:   lead.Website,
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"contact_id": uuid.NewString(),
		"message":    message,
	})
}

func (s *Server) createLeadsBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Leads []models.Lead `json:"leads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !s.isConnected(r) {
		writeError(w, http.StatusBadRequest, "CRM not connected")
		return
	}

	created := 0
	s.mu.Lock()
	for _, lead := range req.Leads {
		if lead.Email == "" {
			continue
		}
		s.contacts = append(s.contacts, models.Contact{Name: lead.Company, Email: lead.Email, Company: lead.Company})
		created++
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(req.Leads),
		"created": created,
		"failed":  len(req.Leads) - created,
		"message": fmt.Sprintf("Successfully created %d contacts", created),
	})
}

func (s *Server) createDeal(w http.ResponseWriter, r *http.Request) {
	var deal models.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if deal.DealName == "" {
		writeValidationError(w, "dealname")
		return
	}
	if !s.isConnected(r) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "CRM not connected"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deal_id": uuid.NewString(),
		"message": "Deal created successfully",
	})
}

func (s *Server) searchContacts(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if !s.isConnected(r) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "contacts": []models.Contact{}, "error": "CRM not connected"})
		return
	}

	s.mu.Lock()
	matched := []models.Contact{}
	for _, c := range s.contacts {
		if query == "" || strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(strings.ToLower(c.Email), query) {
			matched = append(matched, c)
		}
		if len(matched) == limit {
			break
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"contacts": matched,
		"total":    len(matched),
	})
}

type enrichRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Address string `json:"address,omitempty"`
}

func (s *Server) enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" {
		writeValidationError(w, "name")
		return
	}
	if req.Website == "" {
		writeValidationError(w, "website")
		return
	}
	writeJSON(w, http.StatusOK, enrichOne(req))
}

func (s *Server) batchEnrich(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Businesses []enrichRequest `json:"businesses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	results := make([]map[string]any, 0, len(req.Businesses))
	successful, failed := 0, 0
	for _, b := range req.Businesses {
		res := enrichOne(b)
		if res["status"] == "error" {
			failed++
		} else {
			successful++
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":      len(req.Businesses),
		"successful": successful,
		"failed":     failed,
		"results":    results,
	})
}

// enrichOne fabricates a single generic inbox contact from the website host.
func enrichOne(req enrichRequest) map[string]any {
	u, err := url.Parse(req.Website)
	if err != nil || u.Host == "" {
		return map[string]any{
			"name": req.Name, "website": req.Website, "contacts": []models.Contact{},
			"confidence": 0.0, "scraped_content_length": 0, "status": "error",
		}
	}
	host := strings.TrimPrefix(u.Host, "www.")
	contact := models.Contact{
		Name:      req.Name,
		Email:     "info@" + host,
		Company:   req.Name,
		Website:   req.Website,
		Address:   req.Address,
		SourceURL: req.Website,
	}
	return map[string]any{
		"name":                   req.Name,
		"website":                req.Website,
		"contacts":               []models.Contact{contact},
		"confidence":             0.8,
		"scraped_content_length": 0,
		"status":                 "success",
	}
}

func (s *Server) enrichmentHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "available",
		"service":          "contact_enrichment",
		"model_name":       "mock-extractor",
		"preferred_models": []string{"mock-extractor"},
	})
}

func (s *Server) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		writeValidationError(w, "id_token")
		return
	}

	s.mu.Lock()
	user, ok := s.users[req.IDToken]
	var token string
	if ok {
		token = newSessionToken()
		s.sessions[token] = user
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeUser(w, user)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.currentUser(r)
	s.mu.Unlock()

	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.writeUser(w, user)
}

func (s *Server) writeUser(w http.ResponseWriter, user *models.UserProfile) {
	s.mu.Lock()
	snapshot := *user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": snapshot})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) credits(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.currentUser(r)
	var credits int
	if user != nil {
		credits = user.Credits
	}
	s.mu.Unlock()

	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"credits": credits})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.currentUser(r)
	s.mu.Unlock()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		PackID string `json:"pack_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if _, ok := models.FindCreditPack(req.PackID); !ok {
		writeError(w, http.StatusBadRequest, "Invalid credit pack")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": "https://checkout.example.com/pay/" + uuid.NewString(),
	})
}
