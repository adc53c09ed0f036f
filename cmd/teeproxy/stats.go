package main

import "github.com/matst80/teeproxy/internal/stats"

// templateData maps a snapshot to the capitalized keys the dashboard
// template expects.
func templateData(s stats.Snapshot) map[string]any {
	return map[string]any{
		"Active":       s.ActiveSessions,
		"Total":        s.TotalSessions,
		"DialFailures": s.DialFailures,
		"ClientBytes":  s.ClientBytes,
		"ServerBytes":  s.ServerBytes,
	}
}
