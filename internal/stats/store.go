// Package stats tracks relay session counters for the dashboard, the state
// API and (optionally) a shared Redis backend. Only session metadata is
// recorded; observed traffic is never stored.
package stats

import "github.com/matst80/teeproxy/internal/obs"

// Store abstracts session accounting so multiple relay instances can share a
// backend.
type Store interface {
	SessionStarted()
	// SessionClosed records a finished session and the bytes each direction
	// forwarded (client-origin, server-origin).
	SessionClosed(clientBytes, serverBytes int64)
	DialFailed()
	Snapshot() Snapshot
	Close() error
}

// Snapshot is the current state for dashboards & the state API.
type Snapshot struct {
	ActiveSessions int   `json:"active_sessions"`
	TotalSessions  int64 `json:"total_sessions"`
	DialFailures   int64 `json:"dial_failures"`
	ClientBytes    int64 `json:"client_bytes"`
	ServerBytes    int64 `json:"server_bytes"`
}

// NewStore creates either an in-memory or Redis-backed store based on
// configuration.
func NewStore(redisAddr, redisPassword string, redisDB int) (Store, error) {
	if redisAddr == "" {
		obs.Info("stats.backend", obs.Fields{"type": "in-memory"})
		return NewMemory(), nil
	}
	obs.Info("stats.backend", obs.Fields{"type": "redis", "addr": redisAddr})
	return NewRedis(redisAddr, redisPassword, redisDB)
}
