package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var (
	Checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_checkouts_total",
			Help: "Checkout attempts by outcome",
		},
		[]string{"outcome"}, // ok|empty|no_cart|sold_out|low_stock|error
	)
	CartItemsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_items_added_total",
			Help: "Units added to carts",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Checkouts, CartItemsAdded)
}
