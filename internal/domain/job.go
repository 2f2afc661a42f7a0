package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
)

// RawJob is an unprocessed message from the source topic.
type RawJob struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ScalingBranch is one weighted scaling-model alternative.
type ScalingBranch struct {
	ID     string  `json:"id"`
	Model  string  `json:"model"`
	Weight float64 `json:"weight"`
}

// RuptureSpec describes the fault geometry of a job's rupture.
type RuptureSpec struct {
	Trace      *geojson.Geometry `json:"trace"`
	Dip        float64           `json:"dip"`                   // degrees
	Depth      float64           `json:"depth"`                 // km to the top edge
	Width      float64           `json:"width,omitempty"`       // km down dip
	LowerDepth float64           `json:"lower_depth,omitempty"` // km; alternative to width
	DipDir     *float64          `json:"dip_dir,omitempty"`     // degrees; default trace-normal

	Magnitude float64         `json:"magnitude,omitempty"`
	MaxWidth  float64         `json:"max_width,omitempty"` // km; scaling width constraint
	Scaling   []ScalingBranch `json:"scaling,omitempty"`
}

// Site is a query location.
type Site struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceJob is the domain-rich representation after parsing.
type DistanceJob struct {
	ID      string      `json:"id"`
	Rupture RuptureSpec `json:"rupture"`
	Sites   []Site      `json:"sites"`

	// SampleP selects a scaling branch when several are supplied.
	SampleP *float64 `json:"sample_p,omitempty"`

	// ApplyPointSourceCorrection adds table-corrected distances to results.
	ApplyPointSourceCorrection bool `json:"apply_point_source_correction,omitempty"`

	RawPayload []byte `json:"-"`
}

// SiteDistance is the computed distance set for one site.
type SiteDistance struct {
	ID     string `json:"id"`
	SiteID string `json:"site_id"`

	Rjb  float64 `json:"r_jb"`  // km, surface-projection distance
	Rrup float64 `json:"r_rup"` // km, 3-D rupture distance

	// RjbCorrected is the point-source corrected distance, present only
	// when the job requested it.
	RjbCorrected *float64 `json:"r_jb_corrected,omitempty"`
}

// DistanceResult is the serialized outcome of one job, destined for the sink
// topic.
type DistanceResult struct {
	JobID       string         `json:"job_id"`
	Model       string         `json:"model,omitempty"` // sampled scaling branch id
	Length      float64        `json:"length,omitempty"`
	Width       float64        `json:"width"`
	Distances   []SiteDistance `json:"distances"`
	ProcessedAt time.Time      `json:"processed_at"`
}

// ParseRawJob deserializes a RawJob's value into a DistanceJob and validates
// the parts that do not require geometry: presence of trace and sites, and
// site coordinate ranges. Geometry-level validation happens at surface
// construction.
func ParseRawJob(raw RawJob) (DistanceJob, error) {
	var job DistanceJob
	if err := json.Unmarshal(raw.Value, &job); err != nil {
		return DistanceJob{}, fmt.Errorf("parse distance job: %w", err)
	}
	if job.ID == "" {
		return DistanceJob{}, fmt.Errorf("parse distance job: id is required")
	}
	if job.Rupture.Trace == nil {
		return DistanceJob{}, fmt.Errorf("parse distance job %s: rupture.trace is required", job.ID)
	}
	if len(job.Sites) == 0 {
		return DistanceJob{}, fmt.Errorf("parse distance job %s: at least one site is required", job.ID)
	}
	for i, s := range job.Sites {
		if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
			return DistanceJob{}, fmt.Errorf("parse distance job %s: site %d has invalid coordinates (%g, %g)",
				job.ID, i, s.Lat, s.Lon)
		}
	}

	job.RawPayload = raw.Value
	return job, nil
}

// traceLocations converts the GeoJSON trace to locations at the rupture's top
// depth.
func (r RuptureSpec) traceLocations() ([]geo.Location, error) {
	ls, ok := r.Trace.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("rupture trace must be a LineString, got %s", r.Trace.Geometry().GeoJSONType())
	}
	locs := make([]geo.Location, len(ls))
	for i, p := range ls {
		locs[i] = geo.FromPoint(p, r.Depth)
	}
	return locs, nil
}
