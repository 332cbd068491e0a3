package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadgen/localstore"
	"github.com/harperreed/leadgen/models"
)

func TestDefaultState(t *testing.T) {
	st := New().State()

	assert.Equal(t, models.ProviderHubSpot, st.Provider)
	assert.False(t, st.Connected)
	assert.Equal(t, 0, st.Credits)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Notification)
	assert.Equal(t, "", st.SearchQuery)
	assert.Empty(t, st.SearchResults)
	assert.False(t, st.Loading)
	assert.False(t, st.Authenticated())
}

func TestSetUserSyncsCredits(t *testing.T) {
	s := New()

	s.SetUser(&models.UserProfile{ID: 1, Email: "ada@example.com", Name: "Ada", Credits: 42})
	st := s.State()
	require.NotNil(t, st.User)
	assert.Equal(t, 42, st.Credits)
	assert.True(t, st.Authenticated())

	s.SetUser(nil)
	st = s.State()
	assert.Nil(t, st.User)
	assert.Equal(t, 0, st.Credits)
}

func TestSetUserCopiesProfile(t *testing.T) {
	s := New()
	u := &models.UserProfile{ID: 1, Credits: 5}
	s.SetUser(u)
	u.Credits = 99

	assert.Equal(t, 5, s.State().User.Credits)
	assert.Equal(t, 5, s.State().Credits)
}

func TestSetCredits(t *testing.T) {
	s := New()
	s.SetUser(&models.UserProfile{ID: 1, Credits: 10})

	s.SetCredits(7)
	st := s.State()
	assert.Equal(t, 7, st.Credits)
	assert.Equal(t, 7, st.User.Credits)

	s.SetCredits(-3)
	assert.Equal(t, 0, s.State().Credits)
}

func TestClearSearchResultsKeepsQuery(t *testing.T) {
	s := New()
	s.SetSearchQuery("cafes in nyc")
	s.SetSearchResults([]models.Business{{Name: "A"}, {Name: "B"}})

	s.ClearSearchResults()

	st := s.State()
	assert.Equal(t, "cafes in nyc", st.SearchQuery)
	assert.Empty(t, st.SearchResults)
}

func TestStateIsACopy(t *testing.T) {
	s := New()
	s.SetSearchResults([]models.Business{{Name: "A"}})

	st := s.State()
	st.SearchResults[0].Name = "mutated"

	assert.Equal(t, "A", s.State().SearchResults[0].Name)
}

func TestSecondNotificationReplacesFirst(t *testing.T) {
	s := New()

	first := s.SetMessage("Found 3 businesses", SeveritySuccess)
	second := s.SetMessage("Search failed", SeverityError)

	st := s.State()
	require.NotNil(t, st.Notification)
	assert.Equal(t, "Search failed", st.Notification.Text)
	assert.Equal(t, SeverityError, st.Notification.Severity)
	assert.Equal(t, second.ID, st.Notification.ID)
	assert.NotEqual(t, first.ID, second.ID)

	again := s.SetMessage("Search failed", SeverityError)
	assert.NotEqual(t, second.ID, again.ID)

	s.DismissNotification()
	assert.Nil(t, s.State().Notification)
}

func TestSubscribersRunBeforeSetterReturns(t *testing.T) {
	s := New()

	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })

	s.SetProvider(models.ProviderZoho)
	require.Len(t, seen, 1)
	assert.Equal(t, models.ProviderZoho, seen[0].Provider)

	s.SetConnected(true)
	require.Len(t, seen, 2)
	assert.True(t, seen[1].Connected)

	unsubscribe()
	s.SetConnected(false)
	assert.Len(t, seen, 2)
}

func TestSubscriberMayReadState(t *testing.T) {
	s := New()
	var got models.Provider
	s.Subscribe(func(State) { got = s.State().Provider })

	s.SetProvider(models.ProviderSalesforce)
	assert.Equal(t, models.ProviderSalesforce, got)
}

func TestConcurrentSettersNotifyInOrder(t *testing.T) {
	s := New()

	var mu sync.Mutex
	var last State
	s.Subscribe(func(st State) {
		mu.Lock()
		last = st
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				s.SetCredits(i*1000 + n)
				s.SetConnected(n%2 == i)
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, s.State(), last)
}

func TestBeginLoadingIsExclusive(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginLoading() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.True(t, s.State().Loading)

	s.SetLoading(false)
	assert.True(t, s.BeginLoading())
}

func TestLoadWritesSnapshot(t *testing.T) {
	storage := localstore.NewMemory()

	s, err := Load(storage)
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), s.State())

	raw, err := storage.Get(StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2,"state":{}}`, string(raw))
}

func TestStaleSnapshotResetsToDefaults(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "older version", data: `{"version":1,"state":{"provider":"zoho","credits":50,"isConnected":true}}`},
		{name: "newer version", data: `{"version":3,"state":{}}`},
		{name: "missing state", data: `{"version":2}`},
		{name: "garbage", data: `not json`},
		{name: "wrong state type", data: `{"version":2,"state":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DecodeSnapshot([]byte(tt.data))
			assert.False(t, ok)

			storage := localstore.NewMemory()
			require.NoError(t, storage.Set(StorageKey, []byte(tt.data)))

			s, err := Load(storage)
			require.NoError(t, err)
			assert.Equal(t, DefaultState(), s.State())

			raw, err := storage.Get(StorageKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":2,"state":{}}`, string(raw))
		})
	}
}

func TestDecodeCurrentSnapshot(t *testing.T) {
	_, ok := DecodeSnapshot([]byte(`{"version":2,"state":{}}`))
	assert.True(t, ok)

	_, ok = DecodeSnapshot(nil)
	assert.False(t, ok)
}

func TestSessionStateIsNotPersisted(t *testing.T) {
	storage := localstore.NewMemory()
	s, err := Load(storage)
	require.NoError(t, err)

	s.SetUser(&models.UserProfile{ID: 1, Credits: 10})
	s.SetProvider(models.ProviderZoho)
	s.SetConnected(true)

	reloaded, err := Load(storage)
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), reloaded.State())
}
