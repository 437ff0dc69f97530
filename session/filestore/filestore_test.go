package filestore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydrovia/portal-gateway/session"
	"github.com/hydrovia/portal-gateway/session/filestore"
)

func testSession() *session.Session {
	return &session.Session{
		ID: "sess-1",
		Identity: &session.Identity{
			ID:    "user-1",
			Name:  "Jane Operator",
			Email: "jane@plant.example",
			Role:  "operator",
		},
		Token:     "bearer-token-a",
		Role:      "operator",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	original := testSession()
	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, original.Token, loaded.Token)
	require.Equal(t, original.Identity, loaded.Identity)
	require.Equal(t, original.Role, loaded.Role)
	// Expiry is persisted at millisecond precision
	require.Equal(t, original.ExpiresAt.UnixMilli(), loaded.ExpiresAt.UnixMilli())
}

func TestLoadMissingFile(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoadCorruptFile(t *testing.T) {
	folder := t.TempDir()
	store, err := filestore.New(folder)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(folder, "session.json"), []byte("{not json"), 0o600))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoadMissingExpiryFailsSafe(t *testing.T) {
	folder := t.TempDir()
	store, err := filestore.New(folder)
	require.NoError(t, err)

	// Token and identity present, expiry absent: must load as no session,
	// never as a session with an undefined expiry.
	partial := `{"token":"bearer-token-a","user":{"id":"user-1","role":"operator"},"role":"operator"}`
	require.NoError(t, os.WriteFile(filepath.Join(folder, "session.json"), []byte(partial), 0o600))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestClearIdempotent(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear()) // clearing an empty store is a no-op

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSaveRefusesPartialSession(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.Error(t, store.Save(nil))
	require.Error(t, store.Save(&session.Session{Token: "tok"}))
}
