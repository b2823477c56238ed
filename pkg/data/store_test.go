package data

import (
	"testing"

	"github.com/deepcal/deepcal/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMirrorSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Forwarders: []snapshot.Forwarder{
			{ID: "f1", Name: "AfricaLogistics"},
			{ID: "f2", Name: "GlobalFreight"},
		},
		Routes: []snapshot.Route{
			{ID: "r1", Origin: "Lagos", Destination: "Nairobi", TransitDays: 12},
		},
		RateCards: []snapshot.RateCard{
			{ID: "rc1", RouteID: "r1", ForwarderID: "f1", CargoType: "general", BaseCost: 1100},
			{ID: "rc2", RouteID: "r1", ForwarderID: "f2", CargoType: "general", BaseCost: 900},
		},
		Services: []snapshot.Service{
			{ID: "s1", ForwarderID: "f1", Tracking: true},
		},
		Analytics: []snapshot.Analytics{
			{ID: "a1", RouteID: "r1", ForwarderID: "f1", Reliability: 0.91},
		},
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestDB(t))
	_, err := store.MergeSnapshot(testMirrorSnapshot())
	require.NoError(t, err)
	return store
}

func TestStore_NotInitialized(t *testing.T) {
	s := NewStore(nil)

	_, err := s.RouteByEndpoints("a", "b")
	assert.Error(t, err)
	_, err = s.RateCardsFor("r1", "general")
	assert.Error(t, err)
	_, err = s.ForwarderByID("f1")
	assert.Error(t, err)
	_, err = s.ServiceFor("f1")
	assert.Error(t, err)
	_, err = s.AnalyticsFor("r1", "f1")
	assert.Error(t, err)
	_, err = s.LastSync()
	assert.Error(t, err)
}

func TestStore_RouteByEndpoints(t *testing.T) {
	s := setupTestStore(t)

	r, err := s.RouteByEndpoints("Lagos", "Nairobi")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, 12.0, r.TransitDays)

	r, err = s.RouteByEndpoints("Lagos", "Cairo")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestStore_RateCardsFor(t *testing.T) {
	s := setupTestStore(t)

	cards, err := s.RateCardsFor("r1", "general")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "rc1", cards[0].ID)
	assert.Equal(t, 1100.0, cards[0].BaseCost)

	cards, err = s.RateCardsFor("r1", "hazmat")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStore_ForwarderByID(t *testing.T) {
	s := setupTestStore(t)

	f, err := s.ForwarderByID("f2")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "GlobalFreight", f.Name)

	f, err = s.ForwarderByID("nope")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestStore_ServiceFor(t *testing.T) {
	s := setupTestStore(t)

	svc, err := s.ServiceFor("f1")
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.True(t, svc.Tracking)

	svc, err = s.ServiceFor("f2")
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestStore_AnalyticsFor(t *testing.T) {
	s := setupTestStore(t)

	pa, err := s.AnalyticsFor("r1", "f1")
	require.NoError(t, err)
	require.NotNil(t, pa)
	assert.Equal(t, 0.91, pa.Reliability)

	pa, err = s.AnalyticsFor("r1", "f2")
	require.NoError(t, err)
	assert.Nil(t, pa)
}

func TestStore_LastSync(t *testing.T) {
	s := NewStore(setupTestDB(t))

	last, err := s.LastSync()
	require.NoError(t, err)
	assert.Empty(t, last)

	_, err = s.MergeSnapshot(testMirrorSnapshot())
	require.NoError(t, err)

	last, err = s.LastSync()
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}
