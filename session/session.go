package session

import "time"

// Session is the bundle of identity, bearer token and expiry representing
// one logged-in operator context. A session is either fully present or
// fully absent: Token is non-empty if and only if Identity is non-nil.
// At most one session is live per process.
type Session struct {
	ID        string    // Correlation ID for logging (UUID, not persisted semantics)
	Identity  *Identity // Operator profile, opaque beyond presence and role
	Token     string    // Bearer credential issued by the plant API
	Role      string    // Denormalized role for fast guard checks
	ExpiresAt time.Time // Absolute expiry, set only at login
}

// Identity is the operator profile as returned by the plant API.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Valid reports whether the session satisfies the all-or-nothing invariant.
// Anything partial counts as no session.
func (s Session) Valid() bool {
	return s.Token != "" && s.Identity != nil && !s.ExpiresAt.IsZero()
}

// Expired reports whether the session's token has passed its expiry at the
// given instant. Partial sessions are expired by definition.
func (s Session) Expired(now time.Time) bool {
	if !s.Valid() {
		return true
	}
	return now.After(s.ExpiresAt)
}
