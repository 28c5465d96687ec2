package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storesphere",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storesphere",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	ordersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storesphere",
		Name:      "orders_placed_total",
		Help:      "Orders placed by payment method.",
	}, []string{"payment_method"})

	returnTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storesphere",
		Name:      "return_transitions_total",
		Help:      "Return, replacement and cancellation status changes.",
	}, []string{"type", "status"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storesphere",
		Name:      "cache_lookups_total",
		Help:      "Catalog cache lookups by result.",
	}, []string{"result"})
)

// MetricsMiddleware records request count and latency per matched route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the default registry
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordOrderPlaced(paymentMethod string) {
	ordersPlaced.WithLabelValues(paymentMethod).Inc()
}

func RecordReturnTransition(returnType, status string) {
	returnTransitions.WithLabelValues(returnType, status).Inc()
}
