// Package metrics holds the custom Prometheus collectors of the kancl API.
// Collectors register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kancl"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests, including ones for unknown sessions.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// SessionLookupsTotal counts session resolutions.
// Label:
//   - result: "resolved", "absent" or "error"
var SessionLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_lookups_total",
		Help:      "Total number of session lookups, by result.",
	},
	[]string{"result"},
)

// SessionsSweptTotal counts expired sessions removed by the background sweep.
var SessionsSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_swept_total",
		Help:      "Total number of expired sessions deleted by the sweep job.",
	},
)

// ── Translation metrics ───────────────────────────────────────────────────────

// TranslationUpdatesTotal counts single-key translation upserts.
// Label:
//   - locale: target locale (e.g. "en")
var TranslationUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translation_updates_total",
		Help:      "Total number of translation keys written, by locale.",
	},
	[]string{"locale"},
)
