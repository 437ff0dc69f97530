package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hydrovia/portal-gateway/auth/notify"
	"github.com/hydrovia/portal-gateway/session"
)

// LogoutReasonExpired marks a logout triggered by expiry detection rather
// than explicit operator action.
const LogoutReasonExpired = notify.ReasonExpired

// Manager is the single authority for mutating session state. Guards, the
// expiry monitor and the HTTP handlers all read through it or request
// mutation through its operations; nothing else writes the session.
type Manager struct {
	store    session.Store
	notifier *notify.Notifier
	nowTime  func() time.Time // nowTime function (injectable for testing)

	lock    sync.RWMutex
	current *session.Session
	loading bool
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a Manager and restores any persisted session that
// is still valid. Storage failures, corrupt records and lapsed expiries all
// start the manager anonymous: the failure mode is always logged-out, never
// half-authenticated.
func NewManager(store session.Store, notifier *notify.Notifier, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] session store is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewManager] notifier is required")
	}

	m := &Manager{
		store:    store,
		notifier: notifier,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	m.restore()
	return m, nil
}

func (m *Manager) restore() {
	s, err := m.store.Load()
	if err != nil || s == nil || !s.Valid() {
		return
	}
	if s.Expired(m.nowTime()) {
		_ = m.store.Clear()
		return
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	m.current = s
	log.Info().Str("session_id", s.ID).Time("expires_at", s.ExpiresAt).Msg("restored persisted session")
}

// Login records an already-issued credential: it computes the expiry from
// the TTL, persists the session and marks it active. Errors from the
// network exchange that produced the token are the caller's to surface,
// not this method's.
func (m *Manager) Login(identity *session.Identity, token string, ttlMinutes int) error {
	if identity == nil || token == "" {
		return PartialSessionErr
	}
	if ttlMinutes <= 0 {
		return InvalidTTLErr
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	s := &session.Session{
		ID:        uuid.New().String(),
		Identity:  identity,
		Token:     token,
		Role:      identity.Role,
		ExpiresAt: m.nowTime().Add(time.Duration(ttlMinutes) * time.Minute),
	}
	if err := m.store.Save(s); err != nil {
		m.current = nil
		_ = m.store.Clear()
		return errors.Wrap(err, "[Manager.Login] store.Save")
	}

	m.current = s
	m.loading = false
	m.notifier.Acknowledge() // a fresh login supersedes any pending expired-session dialog

	log.Info().Str("session_id", s.ID).Str("user", identity.Email).Time("expires_at", s.ExpiresAt).Msg("session opened")
	return nil
}

type logoutSettings struct {
	showDialog bool
}

// LogoutOption defines a function type to modify logout behaviour.
type LogoutOption func(*logoutSettings)

// WithoutDialog suppresses the expired-session dialog for this logout.
func WithoutDialog() LogoutOption {
	return func(ls *logoutSettings) {
		ls.showDialog = false
	}
}

// Logout clears the session and the persisted record. Safe to call when
// already logged out. A logout with reason LogoutReasonExpired raises the
// expired-session notifier unless WithoutDialog is given.
func (m *Manager) Logout(reason string, options ...LogoutOption) error {
	settings := logoutSettings{showDialog: true}
	for _, opt := range options {
		opt(&settings)
	}

	m.lock.Lock()
	m.current = nil
	m.loading = false
	err := m.store.Clear()
	m.lock.Unlock()

	if reason == LogoutReasonExpired && settings.showDialog {
		m.notifier.Raise(notify.ReasonExpired)
	}

	if err != nil {
		return errors.Wrap(err, "[Manager.Logout] store.Clear")
	}
	log.Info().Str("reason", reason).Msg("session closed")
	return nil
}

// SetHeader replaces only the bearer token after a silent refresh.
// Identity and expiry are left untouched, intentionally asymmetric with
// Login.
func (m *Manager) SetHeader(token string) error {
	if token == "" {
		return EmptyTokenErr
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.current == nil || !m.current.Valid() {
		return NoSessionErr
	}

	updated := *m.current
	updated.Token = token
	if err := m.store.Save(&updated); err != nil {
		return errors.Wrap(err, "[Manager.SetHeader] store.Save")
	}
	m.current = &updated
	return nil
}

// IsTokenExpired reports whether the current token has passed its expiry.
// An absent session counts as expired: request-sending code uses this to
// pre-empt calls that are doomed to fail.
func (m *Manager) IsTokenExpired() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.current == nil {
		return true
	}
	return m.current.Expired(m.nowTime())
}

// Authenticated reports whether a full session is active.
func (m *Manager) Authenticated() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.current != nil && m.current.Valid()
}

// Session returns a copy of the current session. Readers hold only the
// copy; mutation goes through the manager's operations.
func (m *Manager) Session() (session.Session, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.current == nil {
		return session.Session{}, false
	}
	return *m.current, true
}

// Token returns the current bearer token, or empty when logged out.
func (m *Manager) Token() string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Loading reports whether a session-changing operation is in flight, which
// includes the delay window of a forced logout.
func (m *Manager) Loading() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.loading
}

// MarkLoggingOut flags the transient window between expiry detection and
// the forced logout, so the UI can show a loading state instead of an
// abrupt flash.
func (m *Manager) MarkLoggingOut() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.loading = true
}

// CompleteForcedLogout finishes an expiry-triggered logout. If the session
// is already gone, or a fresh login landed during the delay window, there
// is nothing to force; a user-initiated logout racing this converges on
// the same cleared state either way. The expiry re-check and the clear
// happen under one lock acquisition so a concurrent login cannot land in
// between and be wiped.
func (m *Manager) CompleteForcedLogout() error {
	m.lock.Lock()
	if m.current == nil || !m.current.Expired(m.nowTime()) {
		m.loading = false
		m.lock.Unlock()
		return nil
	}

	m.current = nil
	m.loading = false
	err := m.store.Clear()
	m.lock.Unlock()

	m.notifier.Raise(notify.ReasonExpired)

	if err != nil {
		return errors.Wrap(err, "[Manager.CompleteForcedLogout] store.Clear")
	}
	log.Info().Str("reason", LogoutReasonExpired).Msg("session closed")
	return nil
}
