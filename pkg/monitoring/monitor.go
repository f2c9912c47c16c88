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

	StructureLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_structure_loads_total",
		Help: "Number of course structure loads applied to progress stores",
	})

	SectionCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_section_completions_total",
		Help: "Number of sections newly marked as completed",
	})

	ModuleUnlocks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_module_unlocks_total",
		Help: "Number of modules newly marked as unlocked",
	})

	SlotWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_slot_write_failures_total",
		Help: "Number of failed progress slot writes",
	})

	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_backend_requests_total",
			Help: "Requests sent to the course backend",
		},
		[]string{"operation", "status"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(StructureLoads)
	prometheus.MustRegister(SectionCompletions)
	prometheus.MustRegister(ModuleUnlocks)
	prometheus.MustRegister(SlotWriteFailures)
	prometheus.MustRegister(BackendRequests)
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
