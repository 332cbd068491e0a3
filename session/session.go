// ABOUTME: Sign-in lifecycle: startup revalidation, Google login, and logout
// ABOUTME: Keeps the session marker and saved cookies in local storage in step with the store
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/harperreed/leadgen/api"
	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/store"
)

const (
	// MarkerKey is set while this machine believes it holds a backend session.
	MarkerKey = "leadgen_has_session"
	// CookiesKey holds the backend's session cookies between runs.
	CookiesKey = "leadgen_cookies"
)

// Gateway is the part of api.Client the session lifecycle needs.
type Gateway interface {
	Me(ctx context.Context) (*api.AuthResponse, error)
	LoginGoogle(ctx context.Context, idToken string) (*api.AuthResponse, error)
	Logout(ctx context.Context) (*api.StatusResponse, error)
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
	ClearCookies() error
}

// Outcome says what Bootstrap did.
type Outcome int

const (
	// OutcomeAnonymous means no marker was found and no request was made.
	OutcomeAnonymous Outcome = iota
	// OutcomeRestored means the backend confirmed the session.
	OutcomeRestored
	// OutcomeExpired means the backend rejected the session or could not be
	// reached; the user was cleared and the marker removed.
	OutcomeExpired
	// OutcomeDiscarded means the context ended before the answer arrived and
	// nothing was changed.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnonymous:
		return "anonymous"
	case OutcomeRestored:
		return "restored"
	case OutcomeExpired:
		return "expired"
	case OutcomeDiscarded:
		return "discarded"
	}
	return "unknown"
}

type Manager struct {
	gw      Gateway
	store   *store.Store
	storage localstore.Storage
	logger  *zap.Logger
}

func NewManager(gw Gateway, st *store.Store, storage localstore.Storage, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{gw: gw, store: st, storage: storage, logger: logger}
}

// HasMarker reports whether the session marker is present.
func (m *Manager) HasMarker() bool {
	_, err := m.storage.Get(MarkerKey)
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		m.logger.Warn("failed to read session marker", zap.Error(err))
	}
	return err == nil
}

// Bootstrap revalidates a remembered session with the backend. It never
// produces a notification and never returns an error: any failure simply
// leaves the user signed out.
func (m *Manager) Bootstrap(ctx context.Context) Outcome {
	if !m.HasMarker() {
		return OutcomeAnonymous
	}

	m.restoreCookies()

	resp, err := m.gw.Me(ctx)
	if ctx.Err() != nil {
		m.logger.Debug("session check abandoned", zap.Error(ctx.Err()))
		return OutcomeDiscarded
	}

	if err != nil || resp == nil || resp.User == nil {
		switch {
		case api.IsUnauthorized(err):
			m.logger.Info("stored session expired")
		case err != nil:
			m.logger.Warn("session check failed", zap.Error(err))
		default:
			m.logger.Warn("session check returned no user")
		}
		m.store.SetUser(nil)
		m.forget()
		return OutcomeExpired
	}

	m.store.SetUser(resp.User)
	m.saveCookies()
	return OutcomeRestored
}

// Login exchanges a Google ID token for a backend session.
func (m *Manager) Login(ctx context.Context, idToken string) error {
	if idToken == "" {
		m.store.SetMessage("Google login failed", store.SeverityError)
		return errors.New("missing Google credential")
	}

	resp, err := m.gw.LoginGoogle(ctx, idToken)
	if err != nil {
		m.logger.Warn("login failed", zap.Error(err))
		m.store.SetMessage(api.DetailOr(err, "Login failed"), store.SeverityError)
		return err
	}

	m.store.SetUser(resp.User)
	if err := m.storage.Set(MarkerKey, []byte("1")); err != nil {
		m.logger.Warn("failed to write session marker", zap.Error(err))
	}
	m.saveCookies()
	m.store.SetMessage("Signed in successfully", store.SeveritySuccess)
	return nil
}

// Logout ends the backend session. On failure the local session is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.gw.Logout(ctx); err != nil {
		m.logger.Warn("logout failed", zap.Error(err))
		m.store.SetMessage(api.DetailOr(err, "Logout failed"), store.SeverityError)
		return err
	}

	m.store.SetUser(nil)
	m.store.SetConnected(false)
	m.forget()
	m.store.SetMessage("Signed out", store.SeverityInfo)
	return nil
}

// forget drops the marker and every trace of the session cookies.
func (m *Manager) forget() {
	if err := m.storage.Delete(MarkerKey); err != nil {
		m.logger.Warn("failed to delete session marker", zap.Error(err))
	}
	if err := m.storage.Delete(CookiesKey); err != nil {
		m.logger.Warn("failed to delete saved cookies", zap.Error(err))
	}
	if err := m.gw.ClearCookies(); err != nil {
		m.logger.Warn("failed to clear cookie jar", zap.Error(err))
	}
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (m *Manager) saveCookies() {
	cookies := m.gw.Cookies()
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		m.logger.Warn("failed to encode cookies", zap.Error(err))
		return
	}
	if err := m.storage.Set(CookiesKey, data); err != nil {
		m.logger.Warn("failed to save cookies", zap.Error(err))
	}
}

// restoreCookies seeds the jar with cookies saved by an earlier run.
func (m *Manager) restoreCookies() {
	data, err := m.storage.Get(CookiesKey)
	if err != nil {
		return
	}
	var saved []savedCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		m.logger.Warn("ignoring unreadable saved cookies", zap.Error(err))
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		if c.Name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	if len(cookies) > 0 {
		m.gw.SetCookies(cookies)
	}
}
