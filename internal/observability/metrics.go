package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitRejections counts requests rejected by a rate limiter, by
	// limiter name.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatherhood_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"limiter"})

	// ImageGenerationDuration records end-to-end image generation latency.
	ImageGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fatherhood_image_generation_duration_seconds",
		Help:    "Image generation latency in seconds",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60},
	})

	// ImageGenerationFailures counts failed image generation attempts by stage.
	ImageGenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatherhood_image_generation_failures_total",
		Help: "Total number of failed image generation attempts by stage",
	}, []string{"stage"})

	// StorageUploadErrors counts object storage upload failures by backend.
	StorageUploadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatherhood_storage_upload_errors_total",
		Help: "Total number of object storage upload errors by backend",
	}, []string{"backend"})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fatherhood_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fatherhood_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fatherhood_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts successfully created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fatherhood_comments_created_total",
		Help: "Total number of comments created",
	})
)

// TrackQuery returns a function that records query latency when called,
// typically deferred at the top of a repository method.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
