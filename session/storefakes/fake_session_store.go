package storefakes

import (
	"sync"

	"github.com/hydrovia/portal-gateway/session"
)

var _ session.Store = (*FakeSessionStore)(nil)

// FakeSessionStore is an in-memory session.Store for tests, with
// injectable failures per operation.
type FakeSessionStore struct {
	lock    sync.Mutex
	current *session.Session

	LoadErr  error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{}
}

func (fs *FakeSessionStore) Load() (*session.Session, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.LoadErr != nil {
		return nil, fs.LoadErr
	}
	if fs.current == nil {
		return nil, nil
	}
	copied := *fs.current
	return &copied, nil
}

func (fs *FakeSessionStore) Save(s *session.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.SaveCalls++
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	copied := *s
	fs.current = &copied
	return nil
}

func (fs *FakeSessionStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.ClearCalls++
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.current = nil
	return nil
}

// Persisted returns a copy of what the store currently holds, for
// assertions.
func (fs *FakeSessionStore) Persisted() *session.Session {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.current == nil {
		return nil
	}
	copied := *fs.current
	return &copied
}

// Seed primes the store with a persisted session, as if a previous process
// had saved it.
func (fs *FakeSessionStore) Seed(s *session.Session) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	copied := *s
	fs.current = &copied
}
