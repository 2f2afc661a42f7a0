package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
	"github.com/couchcryptid/rupture-distance-service/internal/scaling"
	"github.com/couchcryptid/rupture-distance-service/internal/surface"
	"github.com/couchcryptid/rupture-distance-service/internal/tree"
)

// defaultSampleP selects the logic-tree branch covering the median when a job
// does not specify a sampling probability.
const defaultSampleP = 0.5

// ComputeDistances evaluates every site of a job against its rupture and
// returns the result. The rupture width comes from the job's explicit width
// or lower depth when given, otherwise from the sampled scaling model.
func ComputeDistances(job DistanceJob) (DistanceResult, error) {
	fail := func(err error) (DistanceResult, error) {
		return DistanceResult{}, fmt.Errorf("job %s: %w", job.ID, err)
	}

	locs, err := job.Rupture.traceLocations()
	if err != nil {
		return fail(err)
	}
	trace, err := geo.NewTrace(locs)
	if err != nil {
		return fail(err)
	}

	model, branchID, err := selectScalingBranch(job)
	if err != nil {
		return fail(err)
	}

	dims, err := resolveDimensions(job.Rupture, trace, model)
	if err != nil {
		return fail(err)
	}

	transform, err := surface.NewDistanceTransform(trace, job.Rupture.Dip, dims.Width)
	if err != nil {
		return fail(err)
	}

	distances := make([]SiteDistance, len(job.Sites))
	for i, site := range job.Sites {
		loc := geo.NewLocation(site.Lat, site.Lon)
		d := SiteDistance{
			SiteID: site.ID,
			Rjb:    transform.DistanceJB(loc),
			Rrup:   transform.DistanceRup(loc),
		}
		if job.ApplyPointSourceCorrection {
			corrected, err := model.PointSourceDistance(job.Rupture.Magnitude, d.Rjb)
			if err != nil {
				return fail(fmt.Errorf("site %s: %w", site.ID, err))
			}
			d.RjbCorrected = &corrected
		}
		d.ID = distanceID(job.ID, site.ID, d.Rjb, d.Rrup)
		distances[i] = d
	}

	return DistanceResult{
		JobID:       job.ID,
		Model:       branchID,
		Length:      dims.Length,
		Width:       dims.Width,
		Distances:   distances,
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// selectScalingBranch resolves the job's scaling branches to a single model.
// Multiple branches form a logic tree sampled with the job's probability;
// no branches at all means geometry must be fully specified (model NONE).
func selectScalingBranch(job DistanceJob) (scaling.Model, string, error) {
	switch len(job.Rupture.Scaling) {
	case 0:
		return scaling.None, "", nil
	case 1:
		b := job.Rupture.Scaling[0]
		m, err := scaling.ParseModel(b.Model)
		if err != nil {
			return 0, "", err
		}
		return m, b.ID, nil
	}

	builder := tree.NewBuilder[scaling.Model]()
	for _, b := range job.Rupture.Scaling {
		m, err := scaling.ParseModel(b.Model)
		if err != nil {
			return 0, "", err
		}
		builder.Add(b.ID, m, b.Weight)
	}
	t, err := builder.Build()
	if err != nil {
		return 0, "", fmt.Errorf("scaling branches: %w", err)
	}

	p := defaultSampleP
	if job.SampleP != nil {
		p = *job.SampleP
	}
	branch := t.Sample(p)
	return branch.Value(), branch.ID(), nil
}

// resolveDimensions determines the rupture's length and down-dip width.
// Explicit width wins, then lower depth, then the scaling model.
func resolveDimensions(r RuptureSpec, trace geo.Trace, model scaling.Model) (scaling.Dimensions, error) {
	if r.Width != 0 && r.LowerDepth != 0 {
		return scaling.Dimensions{}, fmt.Errorf("rupture: width and lower_depth are mutually exclusive")
	}
	if r.Width != 0 {
		return scaling.Dimensions{Length: trace.Length(), Width: r.Width}, nil
	}
	if r.LowerDepth != 0 {
		if r.LowerDepth <= r.Depth {
			return scaling.Dimensions{}, fmt.Errorf("rupture: lower_depth %g km is above depth %g km", r.LowerDepth, r.Depth)
		}
		dipRad := r.Dip * math.Pi / 180
		return scaling.Dimensions{
			Length: trace.Length(),
			Width:  (r.LowerDepth - r.Depth) / math.Sin(dipRad),
		}, nil
	}

	if r.Magnitude == 0 || r.MaxWidth == 0 {
		return scaling.Dimensions{}, fmt.Errorf("rupture: magnitude and max_width are required when width is not set")
	}
	dims, err := model.Dimensions(r.Magnitude, r.MaxWidth)
	if err != nil {
		return scaling.Dimensions{}, fmt.Errorf("rupture dimensions: %w", err)
	}
	return dims, nil
}

// distanceID produces a deterministic ID from the result's key fields so
// replays generate identical IDs.
func distanceID(jobID, siteID string, rjb, rrup float64) string {
	input := fmt.Sprintf("%s|%s|%.6f|%.6f", jobID, siteID, rjb, rrup)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
