package geo

import (
	"fmt"
	"math"
	"slices"
)

// Trace is the ordered top edge of a fault, from first to last point along
// strike. A valid trace has at least two points and no duplicate consecutive
// points. Treat as immutable once created.
type Trace []Location

// NewTrace validates and copies the supplied locations into a Trace.
func NewTrace(locs []Location) (Trace, error) {
	if len(locs) < 2 {
		return nil, fmt.Errorf("trace must have at least 2 points, got %d", len(locs))
	}
	for i := 1; i < len(locs); i++ {
		if locs[i].Lat == locs[i-1].Lat && locs[i].Lon == locs[i-1].Lon {
			return nil, fmt.Errorf("trace has duplicate consecutive points at index %d: %s", i, locs[i])
		}
	}
	return Trace(slices.Clone(locs)), nil
}

// First returns the first point of the trace.
func (t Trace) First() Location { return t[0] }

// Last returns the last point of the trace.
func (t Trace) Last() Location { return t[len(t)-1] }

// Length returns the total horizontal length of the trace in km.
func (t Trace) Length() float64 {
	var sum float64
	for i := 1; i < len(t); i++ {
		sum += HorizontalDistance(t[i-1], t[i])
	}
	return sum
}

// Strike returns the azimuth, in radians, of the line connecting the first
// and last points of the trace.
func (t Trace) Strike() float64 {
	return Azimuth(t.First(), t.Last())
}

// DipDirection returns the trace-normal azimuth in radians: strike plus 90°,
// normalized to [0, 2π).
func (t Trace) DipDirection() float64 {
	return math.Mod(t.Strike()+math.Pi/2, 2*math.Pi)
}

// Resample splits the trace into n subsections of equal length measured along
// the original trace, returning n+1 points. Corners are cut where the trace
// bends, so resampled section lengths may be slightly shorter than the
// nominal interval.
func (t Trace) Resample(n int) Trace {
	interval := t.Length() / float64(n)
	resampled := make([]Location, 0, n+1)
	resampled = append(resampled, t.First())

	remaining := interval
	last := t.First()
	next := 1
	for next < len(t) {
		length := HorizontalDistance(last, t[next])
		if length > remaining {
			v := Vector(last, t[next])
			scale := remaining / length
			step := LocationVector{
				Azimuth:    v.Azimuth,
				Horizontal: v.Horizontal * scale,
				Vertical:   v.Vertical * scale,
			}
			loc := PointAt(last, step)
			resampled = append(resampled, loc)
			last = loc
			remaining = interval
			continue
		}
		last = t[next]
		next++
		remaining -= length
	}

	// Numerical precision can drop the endpoint; restore it.
	if HorizontalDistance(t.Last(), resampled[len(resampled)-1]) > interval/2 {
		resampled = append(resampled, t.Last())
	}
	return Trace(resampled)
}
