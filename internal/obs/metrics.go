package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions         = promauto.NewGauge(prometheus.GaugeOpts{Name: "teeproxy_active_sessions", Help: "Currently relaying sessions"})
	SessionsTotal          = promauto.NewCounter(prometheus.CounterOpts{Name: "teeproxy_sessions_total", Help: "Sessions accepted and started"})
	RelayedBytes           = promauto.NewCounterVec(prometheus.CounterOpts{Name: "teeproxy_relayed_bytes_total", Help: "Bytes forwarded by direction"}, []string{"direction"})
	AcceptErrorsTotal      = promauto.NewCounter(prometheus.CounterOpts{Name: "teeproxy_accept_errors_total", Help: "Accept calls that failed"})
	DialErrorsTotal        = promauto.NewCounter(prometheus.CounterOpts{Name: "teeproxy_dial_errors_total", Help: "Upstream dials that failed"})
	RateLimitedTotal       = promauto.NewCounter(prometheus.CounterOpts{Name: "teeproxy_ratelimited_total", Help: "Connections refused by the admission limiter"})
	SessionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{Name: "teeproxy_session_duration_seconds", Help: "Session lifetime seconds", Buckets: prometheus.ExponentialBuckets(0.01, 2, 16)})
)
