// Package metrics define as métricas Prometheus do serviço de resumo de vendedores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seller_summary"

// Métricas HTTP
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Métricas do resumo
var (
	SummariesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summaries_computed_total",
		Help:      "Total number of seller summaries computed from storage.",
	})

	SummaryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_errors_total",
		Help:      "Total number of failed summary requests by error kind.",
	}, []string{"kind"})

	SummaryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "summary_duration_seconds",
		Help:      "Duration of summary computations, storage read included.",
		Buckets:   prometheus.DefBuckets,
	})

	AlertsFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of alerts emitted by alert message.",
	}, []string{"alert"})
)

// Métricas do cache
var (
	SummaryCacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_cache_requests_total",
		Help:      "Summary cache lookups by result (hit, miss).",
	}, []string{"result"})

	SummaryCacheFlushedKeysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_cache_flushed_keys_total",
		Help:      "Total number of summary cache keys removed by flushes.",
	})
)
