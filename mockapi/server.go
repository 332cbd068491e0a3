// ABOUTME: In-memory stand-in for the lead generation backend
// ABOUTME: Serves every /api/v1 route with chi so the client can be exercised locally
package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/leadgen/models"
)

// SessionCookie is the cookie carrying the signed-in session.
const SessionCookie = "leadgen_token"

// Server holds all mock state behind a single mutex.
type Server struct {
	logger *zap.Logger

	mu         sync.Mutex
	businesses []models.Business
	contacts   []models.Contact
	users      map[string]*models.UserProfile // keyed by Google ID token
	sessions   map[string]*models.UserProfile // keyed by session cookie value
	connected  map[models.Provider]bool
	failures   map[string]failure
	hits       map[string]int
}

type failure struct {
	status int
	detail string
}

// New creates an empty mock backend.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:    logger,
		users:     make(map[string]*models.UserProfile),
		sessions:  make(map[string]*models.UserProfile),
		connected: make(map[models.Provider]bool),
		failures:  make(map[string]failure),
		hits:      make(map[string]int),
	}
}

// SetBusinesses replaces the result set returned by every search.
func (s *Server) SetBusinesses(businesses []models.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses = append([]models.Business(nil), businesses...)
}

// SetContacts replaces the contacts stored in the mock CRM.
func (s *Server) SetContacts(contacts []models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append([]models.Contact(nil), contacts...)
}

// AddUser registers an account that can sign in with idToken.
func (s *Server) AddUser(idToken string, user models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.users[idToken] = &u
}

// SetConnected marks a provider as connected without going through /connection.
func (s *Server) SetConnected(provider models.Provider, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected[provider] = connected
}

// FailRoute makes every request to path answer with status and detail.
// An empty detail produces a body without a "detail" field.
func (s *Server) FailRoute(path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, detail: detail}
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// Router returns the HTTP handler for all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLogging)
	r.Use(s.countAndFail)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search/natural", s.searchNatural)
		r.Post("/search/business/import/upload", s.importUpload)

		r.Route("/enrichment", func(r chi.Router) {
			r.Post("/enrich", s.enrich)
			r.Post("/batch-enrich", s.batchEnrich)
			r.Get("/health", s.enrichmentHealth)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/google", s.loginGoogle)
			r.Get("/me", s.me)
			r.Post("/logout", s.logout)
		})

		r.Route("/billing", func(r chi.Router) {
			r.Get("/credits", s.credits)
			r.Post("/checkout", s.checkout)
		})

		r.Route("/{provider}", func(r chi.Router) {
			r.Use(s.requireProvider)
			r.Get("/status", s.crmStatus)
			r.Post("/connection", s.crmConnect)
			r.Post("/leads", s.createLead)
			r.Post("/leads/batch", s.createLeadsBatch)
			r.Post("/leads/upsert", s.upsertLead)
			r.Post("/deals", s.createDeal)
			r.Post("/contacts/search", s.searchContacts)
		})
	})

	return r
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
		)
	})
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			if f.detail == "" {
				writeJSON(w, f.status, map[string]string{})
				return
			}
			writeError(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireProvider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := models.ParseProvider(chi.URLParam(r, "provider")); err != nil {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser resolves the session cookie. Callers must hold s.mu.
func (s *Server) currentUser(r *http.Request) *models.UserProfile {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	return s.sessions[cookie.Value]
}

func newSessionToken() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidationError(w http.ResponseWriter, field string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{
			{"loc": []string{"body", field}, "msg": "field required", "type": "value_error.missing"},
		},
	})
}
