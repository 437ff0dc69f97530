package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hydrovia/portal-gateway/session"
	"github.com/pkg/errors"
)

const fileName = "session.json"

// record mirrors the persisted layout: the bearer token, the serialized
// identity, the absolute epoch-millisecond expiry and the denormalized
// role.
type record struct {
	Token           string            `json:"token"`
	User            *session.Identity `json:"user"`
	TokenExpiration int64             `json:"tokenExpiration"`
	Role            string            `json:"role"`
}

var _ session.Store = (*Store)(nil)

// Store persists the operator session as a JSON file in the data folder,
// so a restarted gateway resumes with the same session.
type Store struct {
	path string
	lock sync.Mutex
}

func New(dataFolder string) (*Store, error) {
	dataFolder = strings.TrimSpace(dataFolder)
	if dataFolder == "" {
		return nil, errors.New("[filestore.New] data folder is required")
	}
	if err := os.MkdirAll(dataFolder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] mkdir data folder")
	}
	return &Store{path: filepath.Join(dataFolder, fileName)}, nil
}

// Load reads the persisted session. Missing files, unreadable files,
// unparseable JSON and records missing any required field all load as
// (nil, nil): corrupt storage means no session.
func (fs *Store) Load() (*session.Session, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	b, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, nil
	}
	if rec.Token == "" || rec.User == nil || rec.TokenExpiration == 0 {
		return nil, nil
	}

	return &session.Session{
		Identity:  rec.User,
		Token:     rec.Token,
		Role:      rec.Role,
		ExpiresAt: time.UnixMilli(rec.TokenExpiration),
	}, nil
}

// Save persists the session, overwriting any prior record. Partial
// sessions are refused so the on-disk state can never violate the
// all-or-nothing invariant.
func (fs *Store) Save(s *session.Session) error {
	if s == nil || !s.Valid() {
		return errors.New("[filestore.Save] refusing to persist a partial session")
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	b, err := json.MarshalIndent(record{
		Token:           s.Token,
		User:            s.Identity,
		TokenExpiration: s.ExpiresAt.UnixMilli(),
		Role:            s.Role,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[filestore.Save] encode session")
	}
	if err := os.WriteFile(fs.path, b, 0o600); err != nil {
		return errors.Wrap(err, "[filestore.Save] write session file")
	}
	return nil
}

// Clear removes the persisted session. Idempotent.
func (fs *Store) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filestore.Clear] remove session file")
	}
	return nil
}
