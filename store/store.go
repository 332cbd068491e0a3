// ABOUTME: Process-wide application state for the dashboard
// ABOUTME: All changes go through named setters; subscribers see every change synchronously
package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/models"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is the single transient message shown to the user. A new
// notification always gets a new ID, even when the text repeats.
type Notification struct {
	ID       string
	Text     string
	Severity Severity
}

type State struct {
	Provider      models.Provider
	Connected     bool
	SearchQuery   string
	SearchResults []models.Business
	Loading       bool
	User          *models.UserProfile
	Credits       int
	Notification  *Notification
}

// DefaultState is the state of a fresh install.
func DefaultState() State {
	return State{
		Provider:      models.DefaultProvider,
		SearchResults: []models.Business{},
	}
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

func (s State) clone() State {
	out := s
	out.SearchResults = append([]models.Business{}, s.SearchResults...)
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	return out
}

type Store struct {
	// notifyMu orders whole updates so subscribers see snapshots in the
	// order they were applied. It is taken before mu.
	notifyMu sync.Mutex
	mu       sync.Mutex
	state    State

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	storage   localstore.Storage
	lastSaved []byte
	logger    *zap.Logger
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a store holding DefaultState that is not persisted anywhere.
func New(opts ...Option) *Store {
	s := &Store{
		state:  DefaultState(),
		subs:   make(map[int]func(State)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to run after every change. fn may read State but
// must not call a setter. The returned function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// update applies fn atomically, persists, and notifies subscribers before
// returning.
func (s *Store) update(fn func(*State)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.persist(snapshot)

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (s *Store) SetProvider(p models.Provider) {
	s.update(func(st *State) { st.Provider = p })
}

func (s *Store) SetConnected(connected bool) {
	s.update(func(st *State) { st.Connected = connected })
}

func (s *Store) SetSearchQuery(query string) {
	s.update(func(st *State) { st.SearchQuery = query })
}

func (s *Store) SetSearchResults(results []models.Business) {
	s.update(func(st *State) {
		st.SearchResults = append([]models.Business{}, results...)
	})
}

// ClearSearchResults empties the results and keeps the query.
func (s *Store) ClearSearchResults() {
	s.update(func(st *State) { st.SearchResults = []models.Business{} })
}

func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.Loading = loading })
}

// BeginLoading sets the loading flag and reports true, or reports false if
// another tracked action already holds it.
func (s *Store) BeginLoading() bool {
	started := false
	s.update(func(st *State) {
		if !st.Loading {
			st.Loading = true
			started = true
		}
	})
	return started
}

// SetUser replaces the signed-in user. The credit balance follows the user:
// it becomes u.Credits, or zero when u is nil.
func (s *Store) SetUser(u *models.UserProfile) {
	s.update(func(st *State) {
		if u == nil {
			st.User = nil
			st.Credits = 0
			return
		}
		user := *u
		if user.Credits < 0 {
			user.Credits = 0
		}
		st.User = &user
		st.Credits = user.Credits
	})
}

// SetCredits updates the balance and the signed-in user's copy of it.
// Negative values are clamped to zero.
func (s *Store) SetCredits(credits int) {
	if credits < 0 {
		credits = 0
	}
	s.update(func(st *State) {
		st.Credits = credits
		if st.User != nil {
			st.User.Credits = credits
		}
	})
}

// SetMessage shows a notification, replacing any existing one.
func (s *Store) SetMessage(text string, severity Severity) Notification {
	n := Notification{ID: uuid.NewString(), Text: text, Severity: severity}
	s.update(func(st *State) {
		nn := n
		st.Notification = &nn
	})
	return n
}

func (s *Store) DismissNotification() {
	s.update(func(st *State) { st.Notification = nil })
}
