// Package netx tracks server reachability for the client. A Monitor polls a
// liveness probe on an interval, remembers the last known state, and fires a
// callback on every offline-to-online transition so deferred sync work can
// be kicked off as soon as connectivity returns.
package netx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/logging"
)

const probeTimeout = 3 * time.Second

// Probe checks reachability, e.g. a health endpoint call. A nil error means
// online.
type Probe func(ctx context.Context) error

// Monitor polls a Probe and exposes the connectivity state.
type Monitor struct {
	probe    Probe
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu       sync.Mutex
	onOnline func()
}

// NewMonitor returns a stopped monitor; run Start on its own goroutine.
func NewMonitor(probe Probe, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{probe: probe, interval: interval, log: log}
}

// OnOnline registers the callback fired on each offline-to-online
// transition (including the initial check when the server is reachable).
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = fn
}

// Online reports the last observed connectivity state. Suitable as a
// scheduler network constraint.
func (m *Monitor) Online(ctx context.Context) bool {
	return m.online.Load()
}

// Start performs an immediate connectivity check and then polls until ctx
// is cancelled. It blocks; run it on a dedicated goroutine.
func (m *Monitor) Start(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.probe(probeCtx)
	cancel()

	wasOnline := m.online.Load()
	m.online.Store(err == nil)

	switch {
	case err == nil && !wasOnline:
		m.log.Debug(ctx, "network became available")
		m.fireOnline()
	case err != nil && wasOnline:
		m.log.Debug(ctx, "network became unavailable", "error", err)
	}
}

func (m *Monitor) fireOnline() {
	m.mu.Lock()
	fn := m.onOnline
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}
