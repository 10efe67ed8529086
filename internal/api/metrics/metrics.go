// Package metrics defines all custom Prometheus metrics for the storehouse
// access API. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storehouse"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successful signups.
// Label:
//   - role: the role granted at creation ("user" or "admin")
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of successful signups, by granted role.",
	},
	[]string{"role"},
)

// SigninsTotal counts signin attempts by outcome.
// Label:
//   - result: "success", "failure", or "locked" (throttled before verification)
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of signin attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts per-request credential resolution failures in the
// access middleware path.
// Label:
//   - scheme: "basic", "bearer", or "absent"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed request authentications, by scheme.",
	},
	[]string{"scheme"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordOpsTotal counts successful record-store operations.
// Labels:
//   - collection: "food" or "clothes"
//   - op: "create", "list", "get", "update", "delete"
var RecordOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_ops_total",
		Help:      "Total number of record store operations, by collection and operation.",
	},
	[]string{"collection", "op"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events processed by the dispatcher workers.
// Labels:
//   - action: the audit action ("signup", "signin_ok", ...)
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events processed, by action and result.",
	},
	[]string{"action", "result"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
