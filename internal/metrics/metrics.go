package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersTotal tracks order placement outcomes
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_orders_total",
			Help: "Order placement attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ItemsReserved tracks successfully reserved line-item units
	ItemsReserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_order_items_reserved_total",
			Help: "Units of stock reserved by successful guarded decrements",
		},
	)

	// Compensations tracks compensating stock increments issued on failure paths
	Compensations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_stock_compensations_total",
			Help: "Compensating stock increments issued",
		},
	)

	// CompensationFailures tracks compensating increments that themselves failed,
	// leaving stock under-counted. Alert on this.
	CompensationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_stock_compensation_failures_total",
			Help: "Compensating stock increments that failed",
		},
	)

	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
