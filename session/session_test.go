package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hydrovia/portal-gateway/session"
)

func TestSessionValid(t *testing.T) {
	now := time.Now()
	identity := &session.Identity{ID: "user-1", Email: "op@plant.example"}

	tests := []struct {
		name string
		sess session.Session
		want bool
	}{
		{"full session", session.Session{Identity: identity, Token: "tok", ExpiresAt: now}, true},
		{"missing token", session.Session{Identity: identity, ExpiresAt: now}, false},
		{"missing identity", session.Session{Token: "tok", ExpiresAt: now}, false},
		{"missing expiry", session.Session{Identity: identity, Token: "tok"}, false},
		{"empty", session.Session{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.sess.Valid())
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	identity := &session.Identity{ID: "user-1"}

	fresh := session.Session{Identity: identity, Token: "tok", ExpiresAt: now.Add(time.Hour)}
	require.False(t, fresh.Expired(now))

	lapsed := session.Session{Identity: identity, Token: "tok", ExpiresAt: now.Add(-time.Millisecond)}
	require.True(t, lapsed.Expired(now))

	// Partial sessions are expired by definition
	partial := session.Session{Token: "tok", ExpiresAt: now.Add(time.Hour)}
	require.True(t, partial.Expired(now))
}
