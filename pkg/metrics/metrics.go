// Package metrics defines and registers the custom Prometheus metrics of the
// review API. It is the single source of truth for metric names, labels and
// help strings.
//
// All collectors register with the default registry at package init via
// promauto. HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yamdb"

// ── Access control ────────────────────────────────────────────────────────────

// AuthorizationDecisionsTotal counts phase-one permission checks made by the
// HTTP permission gate.
// Labels:
//   - resource: "category", "title", "review", ...
//   - action:   "read", "create", "update", "delete"
//   - decision: "allow", "deny" or "not_allowed"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of permission checks, by resource, action and decision.",
	},
	[]string{"resource", "action", "decision"},
)

// ── Identity ──────────────────────────────────────────────────────────────────

// SignupsTotal counts signup requests.
// Label:
//   - outcome: "created", "existing" (idempotent repeat) or "rejected"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup requests, by outcome.",
	},
	[]string{"outcome"},
)

// TokensIssuedTotal counts token exchange attempts.
// Label:
//   - result: "issued", "invalid_code" or "unknown_user"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_requests_total",
		Help:      "Total number of confirmation-code token exchanges, by result.",
	},
	[]string{"result"},
)

// ── Feedback ──────────────────────────────────────────────────────────────────

var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// ── Mail ──────────────────────────────────────────────────────────────────────

// MailDeliveriesTotal counts delivery attempts made by the mail dispatcher.
// Label:
//   - result: "sent" or "failed"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of mail delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailDroppedTotal counts messages discarded because a worker queue was full.
var MailDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dropped_total",
		Help:      "Total number of mail messages dropped because the dispatcher queue was full.",
	},
)

// MailQueueDepth tracks the number of messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveryDuration measures a single delivery attempt.
var MailDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single mail delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)
