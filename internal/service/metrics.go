package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nineties_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nineties_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	storiesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nineties_stories_created_total",
			Help: "Total number of stories generated and persisted.",
		},
	)
)
