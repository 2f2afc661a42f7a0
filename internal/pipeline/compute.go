package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/rupture-distance-service/internal/domain"
	"github.com/couchcryptid/rupture-distance-service/internal/observability"
)

// DistanceComputer parses raw jobs and evaluates their site distances.
type DistanceComputer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewDistanceComputer creates the pipeline's compute stage.
func NewDistanceComputer(logger *slog.Logger, metrics *observability.Metrics) *DistanceComputer {
	return &DistanceComputer{logger: logger, metrics: metrics}
}

// Compute deserializes the raw job and computes distances for all its sites.
func (c *DistanceComputer) Compute(_ context.Context, raw domain.RawJob) (domain.DistanceResult, error) {
	job, err := domain.ParseRawJob(raw)
	if err != nil {
		return domain.DistanceResult{}, err
	}

	start := time.Now()
	result, err := domain.ComputeDistances(job)
	if err != nil {
		return domain.DistanceResult{}, err
	}
	c.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	c.metrics.SitesPerJob.Observe(float64(len(result.Distances)))

	c.logger.Debug("job computed",
		"job_id", result.JobID,
		"sites", len(result.Distances),
		"model", result.Model,
	)
	return result, nil
}
