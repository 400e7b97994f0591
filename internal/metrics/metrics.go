package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agora_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_chat_requests_total",
			Help: "Total number of chat requests by agent persona",
		},
		[]string{"agent"},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_provider_attempts_total",
			Help: "Provider attempts in the fallback chain by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ChainExhaustions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agora_chain_exhaustions_total",
			Help: "Requests where every provider failed and the static fallback was served",
		},
	)

	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_document_uploads_total",
			Help: "Document ingestion attempts by outcome",
		},
		[]string{"outcome"},
	)

	GroupQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agora_group_queries_total",
			Help: "Working-group queries by llm_used",
		},
		[]string{"llm_used"},
	)
)

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
