// Package surface materializes rupture surfaces from fault descriptions and
// computes the site-to-rupture distance metrics ground-motion models consume.
//
// Two representations are provided. GriddedSurface discretizes the rupture
// plane into an evenly spaced 3-D grid by projecting the fault trace down
// dip. DistanceTransform skips the grid entirely: it precomputes a rotated
// 2-D quadrilateral per trace segment and answers rRup/rJB queries
// analytically in O(segments). Both are immutable once built and safe for
// unsynchronized concurrent reads.
package surface

import (
	"fmt"
	"math"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
)

// ValidationError reports malformed or conflicting surface parameters. It is
// raised before any geometry is computed; no partially invalid surface ever
// exists.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// GriddedSurface is an evenly discretized rupture plane. Row 0 is the fault
// trace resampled at the top depth; depth increases strictly with row index.
// Corners at trace bends are preserved exactly, producing piecewise-planar
// surfaces.
type GriddedSurface struct {
	trace  geo.Trace
	depth  float64
	dip    float64 // radians
	dipDir float64 // radians
	width  float64

	rows, cols    int
	strikeSpacing float64 // effective, after re-tiling
	dipSpacing    float64
	locs          []geo.Location // row-major
}

// Rows returns the number of down-dip steps.
func (s *GriddedSurface) Rows() int { return s.rows }

// Cols returns the number of along-strike steps.
func (s *GriddedSurface) Cols() int { return s.cols }

// At returns the grid point at the given down-dip row and along-strike column.
func (s *GriddedSurface) At(row, col int) geo.Location {
	return s.locs[row*s.cols+col]
}

// Dip returns the surface dip in degrees.
func (s *GriddedSurface) Dip() float64 { return s.dip * 180 / math.Pi }

// DipDirection returns the dip direction azimuth in degrees.
func (s *GriddedSurface) DipDirection() float64 { return s.dipDir * 180 / math.Pi }

// Strike returns the surface strike in degrees, defined by the line
// connecting the endpoints of the trace.
func (s *GriddedSurface) Strike() float64 { return s.trace.Strike() * 180 / math.Pi }

// Width returns the down-dip width in km.
func (s *GriddedSurface) Width() float64 { return s.width }

// Depth returns the depth to the top of the surface in km.
func (s *GriddedSurface) Depth() float64 { return s.depth }

// Spacing returns the effective dip and strike spacings in km. These are the
// nominal spacings adjusted so the grid exactly tiles the surface.
func (s *GriddedSurface) Spacing() (dipSpacing, strikeSpacing float64) {
	return s.dipSpacing, s.strikeSpacing
}

// Centroid returns the arithmetic center of the grid.
func (s *GriddedSurface) Centroid() geo.Location {
	var lat, lon, depth float64
	for _, loc := range s.locs {
		lat += loc.Lat
		lon += loc.Lon
		depth += loc.Depth
	}
	n := float64(len(s.locs))
	return geo.Location{Lat: lat / n, Lon: lon / n, Depth: depth / n}
}

// Perimeter returns the surface outline: the top row, the last column, the
// bottom row reversed, and the first column back up to the origin.
func (s *GriddedSurface) Perimeter() []geo.Location {
	out := make([]geo.Location, 0, 2*s.rows+2*s.cols)
	for c := 0; c < s.cols; c++ {
		out = append(out, s.At(0, c))
	}
	for r := 1; r < s.rows; r++ {
		out = append(out, s.At(r, s.cols-1))
	}
	for c := s.cols - 2; c >= 0; c-- {
		out = append(out, s.At(s.rows-1, c))
	}
	for r := s.rows - 2; r > 0; r-- {
		out = append(out, s.At(r, 0))
	}
	return out
}
