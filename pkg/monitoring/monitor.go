package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 挑战完成次数，mode=first|practice
	ChallengeCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_completions_total",
			Help: "Total number of applied challenge completions",
		},
		[]string{"mode"},
	)

	HeartsRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearts_rejections_total",
			Help: "Total number of operations rejected for lack of hearts",
		},
		[]string{"operation"},
	)

	HeartRefills = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heart_refills_total",
			Help: "Total number of successful heart refills",
		},
	)

	CheckoutSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Total number of payment sessions requested",
		},
		[]string{"result"},
	)

	ViewConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "view_ws_connections",
			Help: "Number of active view invalidation websocket connections",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ChallengeCompletions)
	prometheus.MustRegister(HeartsRejections)
	prometheus.MustRegister(HeartRefills)
	prometheus.MustRegister(CheckoutSessions)
	prometheus.MustRegister(ViewConnections)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
