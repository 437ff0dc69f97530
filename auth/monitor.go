package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCheckInterval is how often the monitor inspects the stored
	// expiry. The monitor never calls the server; expiry is client-trusted
	// and only login or refresh responses move it.
	DefaultCheckInterval = time.Minute

	// DefaultLogoutDelay is the pause between detecting an expired token
	// and clearing the session. The window lets the UI show a loading
	// state before the session disappears.
	DefaultLogoutDelay = 2 * time.Second
)

// Monitor periodically checks the manager's session and forces a logout
// once the token has lapsed.
type Monitor struct {
	manager     *Manager
	interval    time.Duration
	logoutDelay time.Duration

	lock    sync.Mutex
	pending *time.Timer
	done    chan struct{}
}

// MonitorOption defines a function type to modify the Monitor instance.
type MonitorOption func(*Monitor)

// WithCheckInterval overrides the tick period (tests compress it).
func WithCheckInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithLogoutDelay overrides the delay between detection and logout.
func WithLogoutDelay(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.logoutDelay = d
	}
}

func NewMonitor(manager *Manager, options ...MonitorOption) (*Monitor, error) {
	if manager == nil {
		return nil, errors.New("[NewMonitor] manager is required")
	}

	m := &Monitor{
		manager:     manager,
		interval:    DefaultCheckInterval,
		logoutDelay: DefaultLogoutDelay,
	}
	for _, opt := range options {
		opt(m)
	}

	if m.interval <= 0 {
		return nil, errors.New("[NewMonitor] check interval must be positive")
	}
	if m.logoutDelay < 0 {
		return nil, errors.New("[NewMonitor] logout delay cannot be negative")
	}
	return m, nil
}

// Start runs the expiry loop in the background until ctx is cancelled.
// Cancellation stops the ticker and any pending forced logout; no timer
// outlives the owning context.
func (m *Monitor) Start(ctx context.Context) {
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Wait blocks until the loop started by Start has exited.
func (m *Monitor) Wait() {
	if m.done != nil {
		<-m.done
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.cancelPending()
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick inspects the session. Detection and the actual logout are separated
// by logoutDelay; the manager reports loading for the duration of the
// window.
func (m *Monitor) tick() {
	if !m.manager.Authenticated() {
		return
	}
	if !m.manager.IsTokenExpired() {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if m.pending != nil {
		return // logout already scheduled
	}

	log.Info().Dur("delay", m.logoutDelay).Msg("session expiry detected, forcing logout")
	m.manager.MarkLoggingOut()
	m.pending = time.AfterFunc(m.logoutDelay, func() {
		m.lock.Lock()
		m.pending = nil
		m.lock.Unlock()

		if err := m.manager.CompleteForcedLogout(); err != nil {
			log.Err(err).Msg("forced logout failed")
		}
	})
}

func (m *Monitor) cancelPending() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}
