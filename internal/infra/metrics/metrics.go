// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	usersRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Count of first-time user registrations.",
		},
	)

	referralsCreditedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referrals_credited_total",
			Help: "Count of successful referral credits.",
		},
	)

	botCommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_command_total",
			Help: "Bot commands by name and outcome (ok/error/rate_limited).",
		},
		[]string{"command", "status"},
	)

	postsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_total",
			Help: "Channel publish attempts by outcome (posted/failed).",
		},
		[]string{"status"},
	)

	publishDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "publish_duration_ms",
			Help:    "Channel publish latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			usersRegisteredTotal, referralsCreditedTotal,
			botCommandTotal, postsTotal, publishDurationMs,
		)
	})
}

func IncUserRegistered()   { usersRegisteredTotal.Inc() }
func IncReferralCredited() { referralsCreditedTotal.Inc() }

func IncBotCommand(command, status string) {
	botCommandTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func ObservePublish(d time.Duration, success bool) {
	status := "posted"
	if !success {
		status = "failed"
	}
	postsTotal.WithLabelValues(status).Inc()
	publishDurationMs.Observe(float64(d.Milliseconds()))
}

func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
