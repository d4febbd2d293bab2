package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_lookups_total",
		Help: "Total number of paginated SKU lookups",
	}, []string{"result"})

	CatalogLookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_lookup_latency_seconds",
		Help:    "Latency of paginated SKU lookups",
		Buckets: prometheus.DefBuckets,
	})

	SelectorStaleDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "selector_stale_responses_dropped_total",
		Help: "Total number of lookup responses discarded for carrying a superseded search token",
	})

	OrdersRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_refresh_total",
		Help: "Total number of wholesale order collection fetches",
	}, []string{"result"})

	BulkTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_transitions_total",
		Help: "Total number of confirmed bulk status transitions",
	}, []string{"status", "outcome"})

	BulkOrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulk_orders_updated_total",
		Help: "Total number of orders mutated by bulk transitions",
	})

	BulkOrdersFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bulk_orders_failed_total",
		Help: "Total number of orders that failed to update during bulk transitions",
	})

	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of composed orders accepted by the order store",
	})

	OrdersRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of composed orders rejected by form validation",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total number of notifications emitted",
	}, []string{"severity"})

	AuditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_events_total",
		Help: "Total number of audit events consumed",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
