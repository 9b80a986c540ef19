package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_reactions_total",
		Help: "Reactions applied, by action",
	}, []string{"action"})

	MatchesResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_pairs_resolved_total",
		Help: "Candidate pairs committed by match resolution",
	})

	SweptReferencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_swept_references_total",
		Help: "Profiles cleaned of references to deleted profiles",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
