// Package metrics defines and registers all custom Prometheus metrics for the
// PatrolPeak checklist API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; the /metrics endpoint exposes them together with the HTTP
// request metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "patrolpeak"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts password checks on POST /login.
// Label:
//   - result: "code_sent", "invalid_credentials", "delivery_failed" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OneTimeCodesIssuedTotal counts one-time codes persisted for delivery.
var OneTimeCodesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "one_time_codes_issued_total",
		Help:      "Total number of one-time codes issued.",
	},
)

// OneTimeCodeVerificationsTotal counts verification attempts.
// Label:
//   - result: "success", "invalid", "expired" or "too_many_attempts"
var OneTimeCodeVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "one_time_code_verifications_total",
		Help:      "Total number of one-time code verifications, by result.",
	},
	[]string{"result"},
)

// SessionsRejectedTotal counts requests turned away by the session gate.
// Label:
//   - reason: "missing", "invalid" or "expired"
var SessionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_rejected_total",
		Help:      "Total number of requests rejected for lack of a valid session.",
	},
	[]string{"reason"},
)

// PasswordResetsTotal counts answer-based password resets.
// Label:
//   - result: "success" or "answer_mismatch"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset attempts, by result.",
	},
	[]string{"result"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSendDuration measures how long the mail collaborator takes per message.
// Label:
//   - outcome: "ok" or "error"
var MailSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_send_duration_seconds",
		Help:      "Duration of outbound mail delivery.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Checklist metrics ─────────────────────────────────────────────────────────

// ItemsCreatedTotal counts newly created checklist items.
var ItemsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_created_total",
		Help:      "Total number of checklist items created.",
	},
)
