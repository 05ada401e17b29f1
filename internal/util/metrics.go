package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TemplatesSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_templates_synced_total",
		Help: "Total number of product templates reconciled from ERP",
	})

	VariantsSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_variants_synced_total",
		Help: "Total number of color variants reconciled from ERP",
	})

	SkusSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_skus_synced_total",
		Help: "Total number of SKUs reconciled from ERP",
	})

	SyncFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_failures_total",
		Help: "Total number of failed sync events",
	}, []string{"event_type", "reason"})

	SyncDuplicatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_duplicates_total",
		Help: "Total number of duplicate sync deliveries rejected by the idempotency ledger",
	}, []string{"event_type"})

	CategoriesSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_categories_synced_total",
		Help: "Total number of categories created by sync",
	})

	CategoryOrphansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_category_orphans_total",
		Help: "Total number of categories created as root because the named parent was unknown",
	})

	ReconcileLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_reconcile_latency_seconds",
		Help:    "Latency of hierarchy reconciliation",
		Buckets: prometheus.DefBuckets,
	})

	IndexWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_index_writes_total",
		Help: "Total number of listing documents written to the search index",
	})

	IndexFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_index_failures_total",
		Help: "Total number of search index writes that failed (logged, never propagated)",
	})

	SearchFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_search_fallbacks_total",
		Help: "Total number of reads answered by the relational store because the search backend failed",
	}, []string{"operation"})

	SearchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_search_latency_seconds",
		Help:    "Latency of search backend queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

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
