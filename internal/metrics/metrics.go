// Package metrics holds the Prometheus collectors for run tracking events.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "project_run",
		Name:      "runs_finished_total",
		Help:      "Runs moved to the finished status.",
	})

	PositionsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "project_run",
		Name:      "positions_ingested_total",
		Help:      "GPS positions stored for in-progress runs.",
	})

	ChallengesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "project_run",
		Name:      "challenges_awarded_total",
		Help:      "Challenge badges awarded, by badge name.",
	}, []string{"challenge"})

	ItemsCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "project_run",
		Name:      "items_collected_total",
		Help:      "Collectible items picked up by athletes.",
	})

	StreamPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "project_run",
		Name:      "stream_publish_errors_total",
		Help:      "Failed publishes of live positions to redis.",
	})
)

// Handler exposes the default registry for fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
