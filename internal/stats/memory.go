package stats

import (
	"sync"

	"github.com/matst80/teeproxy/internal/obs"
)

// Memory is the default single-instance store.
type Memory struct {
	mu           sync.Mutex
	active       int
	total        int64
	dialFailures int64
	clientBytes  int64
	serverBytes  int64
}

func NewMemory() *Memory { return &Memory{} }

var _ Store = (*Memory)(nil)

func (m *Memory) SessionStarted() {
	m.mu.Lock()
	m.active++
	m.total++
	m.mu.Unlock()
	obs.ActiveSessions.Inc()
	obs.SessionsTotal.Inc()
}

func (m *Memory) SessionClosed(clientBytes, serverBytes int64) {
	m.mu.Lock()
	if m.active > 0 {
		m.active--
		obs.ActiveSessions.Dec()
	}
	m.clientBytes += clientBytes
	m.serverBytes += serverBytes
	m.mu.Unlock()
}

func (m *Memory) DialFailed() {
	m.mu.Lock()
	m.dialFailures++
	m.mu.Unlock()
	obs.DialErrorsTotal.Inc()
}

func (m *Memory) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ActiveSessions: m.active,
		TotalSessions:  m.total,
		DialFailures:   m.dialFailures,
		ClientBytes:    m.clientBytes,
		ServerBytes:    m.serverBytes,
	}
}

func (m *Memory) Close() error { return nil }
