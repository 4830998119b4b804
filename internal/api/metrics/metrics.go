// Package metrics defines and registers the custom Prometheus metrics of the
// catalog API. It is the single source of truth for metric names, labels and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts account lifecycle calls.
// Labels:
//   - op: "signup", "verify_otp" or "login"
//   - result: "success" or the error kind (e.g. "invalid_credentials", "not_verified")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup, OTP verification and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntryOperationsTotal counts catalog operations.
// Labels:
//   - op: "create", "get", "update", "delete", "list"
//   - result: "success" or the error kind
var EntryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_operations_total",
		Help:      "Total number of catalog entry operations, by outcome.",
	},
	[]string{"op", "result"},
)

// IdempotencyTotal counts idempotency-key decisions on entry creation.
// Label:
//   - result: "miss" (first request), "replay" (stored response served), "conflict" (in flight)
//     or "mismatch" (key reused with another body)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency-key lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationQueueDepth tracks pending OTP notifications per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of OTP notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures queue wait plus delivery time of one OTP notification.
// Label:
//   - result: "sent" or "error"
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration from enqueue to delivery of an OTP notification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
