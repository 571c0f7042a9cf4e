package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrderAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_amount",
		Help:    "Amount of placed orders",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_latency_seconds",
		Help:    "Latency of the cart to order workflow",
		Buckets: prometheus.DefBuckets,
	})

	CartUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_updates_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failures_total",
		Help: "Total number of rejected authentication attempts",
	}, []string{"reason"})

	TokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokens_issued_total",
		Help: "Total number of access tokens issued",
	}, []string{"role"})

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
