// ABOUTME: User actions behind every dashboard surface (TUI, CLI, MCP)
// ABOUTME: Validates input, calls the gateway, and reports the outcome through the store notification
package actions

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/session"
	"github.com/harperreed/leadgen/store"
)

var (
	// ErrInvalidInput marks an action rejected before any request was sent.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBusy is returned when another tracked action is still running.
	ErrBusy = errors.New("another action is in progress")
	// ErrRejected means the backend answered but reported failure.
	ErrRejected = errors.New("rejected by backend")
)

// Gateway is the set of backend calls the dashboard makes.
type Gateway interface {
	SearchNatural(ctx context.Context, query string, maxResults int) (*api.SearchResults, error)
	ImportFile(ctx context.Context, filename string, r io.Reader) (*api.ImportResult, error)

	CRMStatus(ctx context.Context, provider models.Provider) (*api.CRMConnection, error)
	ConnectCRM(ctx context.Context, provider models.Provider, req api.ConnectRequest) (*api.CRMConnection, error)
	CreateLead(ctx context.Context, provider models.Provider, lead models.Lead) (*api.LeadResponse, error)
	CreateLeadsBatch(ctx context.Context, provider models.Provider, leads []models.Lead) (*api.BatchLeadsResponse, error)
	UpsertLead(ctx context.Context, provider models.Provider, lead models.Lead) (*api.LeadResponse, error)
	CreateDeal(ctx context.Context, provider models.Provider, deal models.Deal) (*api.DealResponse, error)
	SearchContacts(ctx context.Context, provider models.Provider, query string, limit int) (*api.ContactSearchResponse, error)

	Enrich(ctx context.Context, req api.EnrichmentRequest) (*api.EnrichmentResponse, error)
	EnrichBatch(ctx context.Context, reqs []api.EnrichmentRequest) (*api.BatchEnrichmentResponse, error)
	EnrichmentHealth(ctx context.Context) (*api.EnrichmentHealth, error)

	Credits(ctx context.Context) (*api.CreditsResponse, error)
	Checkout(ctx context.Context, packID string) (*api.CheckoutResponse, error)
}

var _ Gateway = (*api.Client)(nil)

const (
	// SearchResultLimit is how many businesses one dashboard search asks for.
	SearchResultLimit = 5
	// ContactSearchLimit caps CRM contact lookups.
	ContactSearchLimit = 20
)

type Dashboard struct {
	gw      Gateway
	store   *store.Store
	session *session.Manager
	logger  *zap.Logger
}

func New(gw Gateway, st *store.Store, sess *session.Manager, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{gw: gw, store: st, session: sess, logger: logger}
}

// Store exposes the state the dashboard reports into.
func (d *Dashboard) Store() *store.Store {
	return d.store
}

// Bootstrap revalidates a remembered session; see session.Manager.Bootstrap.
func (d *Dashboard) Bootstrap(ctx context.Context) session.Outcome {
	return d.session.Bootstrap(ctx)
}

// track runs fn while holding the store's loading flag.
func (d *Dashboard) track(fn func() error) error {
	if !d.store.BeginLoading() {
		return ErrBusy
	}
	defer d.store.SetLoading(false)
	return fn()
}

// invalid reports a validation failure without touching the network.
func (d *Dashboard) invalid(text string, severity store.Severity) error {
	d.store.SetMessage(text, severity)
	return fmt.Errorf("%w: %s", ErrInvalidInput, text)
}

// failed reports a transport, status, or decode error from the gateway.
func (d *Dashboard) failed(action string, err error, fallback string) error {
	d.logger.Warn(action+" failed", zap.Error(err))
	d.store.SetMessage(api.DetailOr(err, fallback), store.SeverityError)
	return err
}

// rejected reports a well-formed response that says the operation failed.
func (d *Dashboard) rejected(message, fallback string) error {
	if message == "" {
		message = fallback
	}
	d.store.SetMessage(message, store.SeverityError)
	return fmt.Errorf("%w: %s", ErrRejected, message)
}

func (d *Dashboard) requireConnection() error {
	if !d.store.State().Connected {
		return d.invalid("Please connect to CRM first", store.SeverityError)
	}
	return nil
}
