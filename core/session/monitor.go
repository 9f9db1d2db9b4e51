package session

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is the period of zero user activity after which a
// session is forcibly ended.
const DefaultIdleTimeout = 10 * time.Minute

// Monitor watches a stream of user-activity signals and fires a callback
// once the signals stop for a full timeout period. It only detects; the
// consequence (ending the session) belongs to the caller.
//
// Each signal overwrites the previous deadline (last-writer-wins). The
// callback fires exactly once per idle episode: after a fire, the next
// signal re-arms the deadline and a new episode begins.
type Monitor struct {
	mu           sync.Mutex
	timeout      time.Duration
	onIdle       func()
	timer        *time.Timer
	lastActivity time.Time
	stopped      bool
}

// StartMonitor begins watching with the given timeout. A zero or negative
// timeout falls back to DefaultIdleTimeout.
func StartMonitor(timeout time.Duration, onIdle func()) *Monitor {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	m := &Monitor{
		timeout:      timeout,
		onIdle:       onIdle,
		lastActivity: nowFunc(),
	}
	m.timer = time.AfterFunc(timeout, m.fire)
	return m
}

func (m *Monitor) fire() {
	m.mu.Lock()
	stopped := m.stopped
	onIdle := m.onIdle
	m.mu.Unlock()

	if !stopped && onIdle != nil {
		onIdle()
	}
}

// Signal records user activity and re-arms the idle deadline.
func (m *Monitor) Signal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.lastActivity = nowFunc()
	m.timer.Reset(m.timeout)
}

// Reset re-arms the deadline immediately, same as an activity signal.
func (m *Monitor) Reset() { m.Signal() }

// LastActivity returns the timestamp of the most recent observed signal.
func (m *Monitor) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

// Stop tears the monitor down: the pending deadline is cancelled and no
// callback will fire afterwards. Safe to call multiple times.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	m.timer.Stop()
}
