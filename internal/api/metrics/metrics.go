// Package metrics defines and registers all custom Prometheus metrics for
// the student monitor API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studentmonitor"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", "invalid", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RememberMeRedemptionsTotal counts remember-me token redemptions.
// Label:
//   - result: "success", "expired", or "invalid"
var RememberMeRedemptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remember_me_redemptions_total",
		Help:      "Total number of remember-me token redemptions, by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures how long a single password hash takes,
// including time spent waiting on the hashing concurrency limit.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing, queueing included.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AuthorizationDenialsTotal counts guard denials.
// Label:
//   - outcome: "login_redirect" or "forbidden"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by the authorization guard.",
	},
	[]string{"outcome"},
)
