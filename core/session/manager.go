package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core"
)

// EndReason says why a session ended. Everything except an explicit
// logout is surfaced to the UI so it can explain the forced return to
// the login screen.
type EndReason string

const (
	EndLogout   EndReason = "logged out"
	EndRejected EndReason = "session rejected by the server, please sign in again"
)

// IdleReason builds the idle end reason from the timeout in effect, so
// the explanation stays truthful when the default is overridden.
func IdleReason(timeout time.Duration) EndReason {
	return EndReason("session closed after " + formatTimeout(timeout) + " of inactivity")
}

func formatTimeout(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		if min := int(d / time.Minute); min > 1 {
			return fmt.Sprintf("%d minutes", min)
		}
		return "1 minute"
	}
	return d.String()
}

// Manager is the single owner of the session lifecycle: it restores the
// persisted session at start-up, stamps activity, runs the periodic
// expiry safety net, and ends the session on logout, idle timeout or an
// authentication rejection from the API.
type Manager struct {
	store         Store
	timeout       time.Duration
	checkInterval time.Duration
	idleReason    EndReason
	logger        core.Logger

	mu       sync.Mutex
	sess     *Session
	monitor  *Monitor
	onExpire func(EndReason)
}

func NewManager(store Store, conf *core.Config, logger core.Logger) *Manager {
	timeout := conf.IdleTimeout
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	checkInterval := conf.SessionCheckInterval
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &Manager{
		store:         store,
		timeout:       timeout,
		checkInterval: checkInterval,
		idleReason:    IdleReason(timeout),
		logger:        logger,
	}
}

// OnExpire registers the callback invoked (at most once per session)
// when the session ends for any reason other than an explicit logout.
func (m *Manager) OnExpire(fn func(EndReason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// Restore reconciles the persisted session at start-up. A session whose
// last activity is older than the timeout is treated as already expired,
// even though no monitor was running to observe the gap: it is cleared,
// not restored.
func (m *Manager) Restore() (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		if errors.Cause(err) == ErrNoSession {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loading persisted session")
	}

	if sess.ExpiredAt(nowFunc(), m.timeout) {
		m.logger.Warn("expired session detected at start-up, clearing")
		if err := m.store.Clear(); err != nil {
			return nil, errors.Wrap(err, "clearing expired session")
		}
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = sess
	m.startMonitorLocked()
	return sess, nil
}

// Begin starts a new session from a freshly issued bearer token and
// persists it.
func (m *Manager) Begin(token string) (*Session, error) {
	sess, err := FromToken(token)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(sess); err != nil {
		return nil, errors.Wrap(err, "persisting session")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.monitor != nil {
		m.monitor.Stop()
	}
	m.sess = sess
	m.startMonitorLocked()
	return sess, nil
}

func (m *Manager) startMonitorLocked() {
	m.monitor = StartMonitor(m.timeout, func() {
		m.end(m.idleReason)
	})
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// Token returns the active bearer token, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ""
	}
	return m.sess.Token
}

// Touch stamps "last activity" now: user input and outbound API calls
// both count as activity. The new timestamp is persisted so a restart
// can reconcile against it.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return
	}
	m.sess.LastActivity = nowFunc()
	m.monitor.Signal()
	if err := m.store.Save(m.sess); err != nil {
		m.logger.Error("persisting session activity", err)
	}
}

// Expired reports whether the active session has gone idle past the
// timeout.
func (m *Manager) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil && m.sess.ExpiredAt(nowFunc(), m.timeout)
}

// End terminates the session on explicit logout.
func (m *Manager) End() { m.end(EndLogout) }

// Invalidate terminates the session after the API rejected it (401 on a
// non-login endpoint).
func (m *Manager) Invalidate() { m.end(EndRejected) }

func (m *Manager) end(reason EndReason) {
	m.mu.Lock()
	if m.sess == nil {
		m.mu.Unlock()
		return
	}
	m.sess = nil
	if m.monitor != nil {
		m.monitor.Stop()
		m.monitor = nil
	}
	onExpire := m.onExpire
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Error("clearing persisted session", err)
	}
	if reason != EndLogout {
		m.logger.Warn("session ended: " + string(reason))
		if onExpire != nil {
			onExpire(reason)
		}
	}
}

// Run re-checks expiry on a fixed cadence until ctx is done. A safety
// net, independent of the event-driven monitor, against missed signals
// or a suspended process.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.Expired() {
				m.logger.Warn("expired session detected by periodic check")
				m.end(m.idleReason)
			}
		}
	}
}
