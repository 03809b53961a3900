package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reservation and purchase outcome label values
const (
	OutcomeSuccess          = "success"
	OutcomeConflict         = "conflict"
	OutcomeSharesUnavail    = "shares_unavailable"
	OutcomeNotFound         = "not_found"
	OutcomeValidation       = "validation"
	OutcomeRetriesExhausted = "retries_exhausted"
	OutcomePartialFailure   = "partial_failure"
	OutcomeCanceled         = "canceled"
	OutcomeError            = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	Reservations   *prometheus.CounterVec
	SharesReserved prometheus.Counter
	ReserveRetries prometheus.Counter

	// Purchase metrics
	Purchases        *prometheus.CounterVec
	PartialFailures  prometheus.Counter
	PurchaseDuration prometheus.Histogram
	PurchaseAmount   prometheus.Histogram

	// Project metrics
	ProjectsCreated prometheus.Counter
	ProjectCache    *prometheus.CounterVec

	// Notification metrics
	NotificationsSent    *prometheus.CounterVec
	NotificationsDropped prometheus.Counter

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	IdempotentReplays prometheus.Counter
	RateLimitHits     *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		Reservations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_reservations_total",
				Help: "Total share reservation attempts by outcome",
			},
			[]string{"outcome"},
		),
		SharesReserved: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_shares_reserved_total",
			Help: "Total number of shares committed by the ledger",
		}),
		ReserveRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_reserve_retries_total",
			Help: "Total reservation retries after a concurrent update",
		}),

		// Purchase metrics
		Purchases: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_purchases_total",
				Help: "Total purchases by outcome",
			},
			[]string{"outcome"},
		),
		PartialFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_purchase_partial_failures_total",
			Help: "Purchases whose shares were reserved but whose investment was not recorded",
		}),
		PurchaseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sharefund_purchase_duration_seconds",
			Help:    "Duration of purchase operations",
			Buckets: prometheus.DefBuckets,
		}),
		PurchaseAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sharefund_purchase_amount",
			Help:    "Amounts invested per purchase",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Project metrics
		ProjectsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_projects_created_total",
			Help: "Total number of projects created",
		}),
		ProjectCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_project_cache_total",
				Help: "Project snapshot cache lookups by result",
			},
			[]string{"result"},
		),

		// Notification metrics
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_notifications_total",
				Help: "Notifications handed to the sender by status",
			},
			[]string{"status"},
		),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sharefund_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "sharefund_idempotent_replays_total",
			Help: "Responses replayed from the idempotency store",
		}),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefund_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
