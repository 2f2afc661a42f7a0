// Package domain models rupture distance jobs and their results.
//
// # Job format
//
// A distance job arrives on the source topic as JSON: a rupture description
// plus the sites to evaluate against it.
//
//	{
//	  "id": "job-scec-0412",
//	  "rupture": {
//	    "trace": {"type": "LineString", "coordinates": [[-118.0, 34.0], [-117.9, 34.1]]},
//	    "dip": 50,
//	    "depth": 0,
//	    "width": 15,
//	    "magnitude": 7.0,
//	    "scaling": [{"id": "wc94", "model": "WC94_LENGTH", "weight": 1.0}]
//	  },
//	  "sites": [{"id": "LAX", "lat": 33.94, "lon": -118.41}]
//	}
//
// The trace is a GeoJSON LineString of [lon, lat] positions ordered along
// strike; the configured depth places its top edge. Exactly one of "width"
// and "lower_depth" sizes the rupture down dip — or neither, in which case a
// scaling model derives the width from the magnitude and "max_width".
//
// # Scaling branches
//
// "scaling" lists weighted scaling-model alternatives. When more than one
// branch is present the engine builds a logic tree and selects a branch with
// the job's "sample_p" probability (default 0.5), recording the chosen branch
// id on every result. Branch weights must sum to 1.
//
// # Point-source correction
//
// Jobs with "apply_point_source_correction" set receive, alongside the exact
// rJB, the statistically corrected distance for a rupture of unknown strike,
// looked up from the selected model's correction table. Only
// POINT_WC94_LENGTH, SUB_GEOMAT_LENGTH, SOMERVILLE, and NONE define the
// correction.
//
// # Result identity
//
// Result IDs are deterministic SHA-256 hashes of job, site, and metric
// fields, so replaying a job produces identical IDs and downstream sinks can
// upsert idempotently.
package domain
