package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed redis commands by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "murmur_redis_errors_total",
	Help: "Number of redis command failures.",
}, []string{"command"})

// EntriesArchived counts entries pulled from public view by the report ratio policy.
var EntriesArchived = promauto.NewCounter(prometheus.CounterOpts{
	Name: "murmur_entries_archived_total",
	Help: "Number of entries auto-archived by the moderation policy.",
})

// CommentsModerated counts comments removed by the report ratio policy.
var CommentsModerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "murmur_comments_moderated_total",
	Help: "Number of comments deleted by the moderation policy.",
})

// EntriesReaped counts soft-deleted entries purged after the retention window.
var EntriesReaped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "murmur_entries_reaped_total",
	Help: "Number of recycle bin entries purged by the retention reaper.",
})

// InitMetrics creates the prometheus middleware and registers the /metrics endpoint handler.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	prom := fiberprometheus.New(serviceName)
	return prom
}

// MetricsMiddleware wires the prometheus collector into the request chain.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
