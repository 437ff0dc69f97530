package session

// Store defines durable persistence for the operator session. The session
// must survive process restarts; the store is the only thing that outlives
// the auth manager.
type Store interface {
	// Load reads the persisted session. A missing, partial or corrupt
	// record loads as (nil, nil): absence, never an error the caller has
	// to surface to the operator.
	Load() (*Session, error)

	// Save persists the session, overwriting any prior record.
	Save(s *Session) error

	// Clear removes the persisted session. Clearing an empty store is a
	// no-op, not an error.
	Clear() error
}
