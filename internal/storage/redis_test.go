package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourhelpa/helpa/pkg/profile"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStorage_Ping(t *testing.T) {
	store, _ := newTestStorage(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStorage_SaveAndLoadProfile(t *testing.T) {
	store, _ := newTestStorage(t)
	ctx := context.Background()

	p := profile.NewProfile("2348001234567", "Ada")
	p.State = profile.StateAwaitingSelection
	p.Role = profile.RoleRequester
	p.Persona = profile.PersonaKore
	p.Request = profile.Request{
		Kind:        profile.KindService,
		Category:    "plumber",
		Summary:     "fix a leaking pipe",
		City:        "Ibadan",
		RegionState: "Oyo",
		Budget:      "15000",
	}
	p.Candidates = []profile.Candidate{{ID: "SVC-001", Name: "Tunde", Price: "₦12000"}}

	require.NoError(t, store.SaveProfile(ctx, p))
	assert.False(t, p.UpdatedAt.IsZero(), "save stamps the profile")

	loaded, err := store.LoadProfile(ctx, "2348001234567")
	require.NoError(t, err)
	assert.Equal(t, profile.StateAwaitingSelection, loaded.State)
	assert.Equal(t, profile.RoleRequester, loaded.Role)
	assert.Equal(t, profile.PersonaKore, loaded.Persona)
	assert.Equal(t, "plumber", loaded.Request.Category)
	require.Len(t, loaded.Candidates, 1)
	assert.Equal(t, "SVC-001", loaded.Candidates[0].ID)
}

func TestRedisStorage_LoadProfile_FirstContact(t *testing.T) {
	store, _ := newTestStorage(t)

	p, err := store.LoadProfile(context.Background(), "2348009999999")
	require.NoError(t, err)
	assert.Equal(t, "2348009999999", p.VisitorID)
	assert.Equal(t, profile.StateEntry, p.State)
	assert.Equal(t, profile.RoleUnassigned, p.Role)
	assert.Equal(t, profile.DefaultCity, p.Request.City)
}

func TestRedisStorage_LoadProfile_CorruptStateIsNormalized(t *testing.T) {
	store, mr := newTestStorage(t)
	ctx := context.Background()

	raw, err := json.Marshal(map[string]any{
		"visitor_id": "v1",
		"state":      "AWAIT_WORMHOLE",
		"persona":    "narrator",
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set("profile:v1", string(raw)))

	p, err := store.LoadProfile(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, profile.StateEntry, p.State)
	assert.Equal(t, profile.PersonaBukky, p.Persona)
}

func TestRedisStorage_LoadProfile_InvalidJSON(t *testing.T) {
	store, mr := newTestStorage(t)

	require.NoError(t, mr.Set("profile:v1", "{not json"))

	_, err := store.LoadProfile(context.Background(), "v1")
	assert.Error(t, err)
}

func TestRedisStorage_DeleteProfile(t *testing.T) {
	store, _ := newTestStorage(t)
	ctx := context.Background()

	p := profile.NewProfile("v1", "Ada")
	p.State = profile.StatePaymentPending
	require.NoError(t, store.SaveProfile(ctx, p))
	require.NoError(t, store.DeleteProfile(ctx, "v1"))

	// After delete the visitor is a first contact again.
	loaded, err := store.LoadProfile(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, profile.StateEntry, loaded.State)
}

func TestRedisStorage_ConnectionFailure(t *testing.T) {
	store, mr := newTestStorage(t)
	mr.Close()

	assert.Error(t, store.Ping(context.Background()))
	_, err := store.LoadProfile(context.Background(), "v1")
	assert.Error(t, err)
}
