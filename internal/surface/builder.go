package surface

import (
	"math"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
)

const (
	defaultSpacing = 1.0  // km
	minSpacing     = 0.01 // km
	maxSpacing     = 20.0 // km
)

// Builder assembles a GriddedSurface. Trace, dip, depth, and exactly one of
// width or lower depth are required; dip direction and spacing are optional.
// A Builder is single-use: calling Build a second time is an error.
type Builder struct {
	err   error
	built bool

	trace geo.Trace
	dip   *float64 // radians
	depth *float64

	// conditional, mutually exclusive
	width      *float64
	lowerDepth *float64

	// optional
	dipDir        *float64 // radians
	dipSpacing    float64
	strikeSpacing float64
}

// NewBuilder returns a surface builder with default 1 km grid spacing.
func NewBuilder() *Builder {
	return &Builder{
		dipSpacing:    defaultSpacing,
		strikeSpacing: defaultSpacing,
	}
}

// fail records the first validation failure; later setters and Build are
// no-ops once set.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Trace sets the fault trace.
func (b *Builder) Trace(locs []geo.Location) *Builder {
	trace, err := geo.NewTrace(locs)
	if err != nil {
		b.fail(validationErrorf("trace: %v", err))
		return b
	}
	b.trace = trace
	return b
}

// Dip sets the surface dip in degrees.
func (b *Builder) Dip(dip float64) *Builder {
	d, err := geo.ValidateDip(dip)
	if err != nil {
		b.fail(validationErrorf("%v", err))
		return b
	}
	rad := d * math.Pi / 180
	b.dip = &rad
	return b
}

// DipDir sets the dip direction azimuth in degrees. When unset, the dip
// direction is normal to the trace: strike plus 90°.
func (b *Builder) DipDir(dipDir float64) *Builder {
	d, err := geo.ValidateStrike(dipDir)
	if err != nil {
		b.fail(validationErrorf("dip direction: %v", err))
		return b
	}
	rad := d * math.Pi / 180
	b.dipDir = &rad
	return b
}

// Depth sets the depth to the top of the surface in km.
func (b *Builder) Depth(depth float64) *Builder {
	d, err := geo.ValidateDepth(depth)
	if err != nil {
		b.fail(validationErrorf("%v", err))
		return b
	}
	b.depth = &d
	return b
}

// Width sets the down-dip width in km. Mutually exclusive with LowerDepth.
func (b *Builder) Width(width float64) *Builder {
	if b.lowerDepth != nil {
		b.fail(validationErrorf("either width or lower depth may be set, but not both"))
		return b
	}
	w, err := geo.ValidateWidth(width)
	if err != nil {
		b.fail(validationErrorf("%v", err))
		return b
	}
	b.width = &w
	return b
}

// LowerDepth sets the depth to the bottom of the surface in km; the width is
// then derived from the dip. Mutually exclusive with Width.
func (b *Builder) LowerDepth(lowerDepth float64) *Builder {
	if b.width != nil {
		b.fail(validationErrorf("either width or lower depth may be set, but not both"))
		return b
	}
	d, err := geo.ValidateDepth(lowerDepth)
	if err != nil {
		b.fail(validationErrorf("lower depth: %v", err))
		return b
	}
	b.lowerDepth = &d
	return b
}

// Spacing sets both the dip and strike grid spacings in km.
func (b *Builder) Spacing(spacing float64) *Builder {
	return b.SpacingDipStrike(spacing, spacing)
}

// SpacingDipStrike sets the dip and strike grid spacings independently.
func (b *Builder) SpacingDipStrike(dipSpacing, strikeSpacing float64) *Builder {
	if dipSpacing < minSpacing || dipSpacing > maxSpacing {
		b.fail(validationErrorf("dip spacing must be in [%g, %g] km, got %g", minSpacing, maxSpacing, dipSpacing))
		return b
	}
	if strikeSpacing < minSpacing || strikeSpacing > maxSpacing {
		b.fail(validationErrorf("strike spacing must be in [%g, %g] km, got %g", minSpacing, maxSpacing, strikeSpacing))
		return b
	}
	b.dipSpacing = dipSpacing
	b.strikeSpacing = strikeSpacing
	return b
}

// Build validates the collected parameters and materializes the grid. All
// validation happens before any geometry is computed.
func (b *Builder) Build() (*GriddedSurface, error) {
	if b.built {
		return nil, validationErrorf("builder has already been used")
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.trace == nil {
		return nil, validationErrorf("trace not set")
	}
	if b.dip == nil {
		return nil, validationErrorf("dip not set")
	}
	if b.depth == nil {
		return nil, validationErrorf("depth not set")
	}
	if (b.width == nil) == (b.lowerDepth == nil) {
		return nil, validationErrorf("exactly one of width or lower depth must be set")
	}
	if b.lowerDepth != nil && *b.lowerDepth <= *b.depth {
		return nil, validationErrorf("lower depth %g km is above upper depth %g km", *b.lowerDepth, *b.depth)
	}
	b.built = true

	dipDir := b.trace.DipDirection()
	if b.dipDir != nil {
		dipDir = *b.dipDir
	}
	var width float64
	if b.width != nil {
		width = *b.width
	} else {
		width = (*b.lowerDepth - *b.depth) / math.Sin(*b.dip)
	}

	return buildGrid(b.trace, *b.dip, dipDir, *b.depth, width, b.dipSpacing, b.strikeSpacing), nil
}

// buildGrid discretizes the rupture plane. The trace is walked segment by
// segment so corners at bends are preserved exactly; each column is then
// projected down dip from the top row.
func buildGrid(trace geo.Trace, dip, dipDir, depth, width, dipSpacing, strikeSpacing float64) *GriddedSurface {
	segments := len(trace) - 1
	segmentAzimuth := make([]float64, segments)
	segmentCumLength := make([]float64, segments)

	var cumulative float64
	for i := 0; i < segments; i++ {
		v := geo.Vector(trace[i], trace[i+1])
		segmentAzimuth[i] = v.Azimuth
		cumulative += v.Horizontal
		segmentCumLength[i] = cumulative
	}
	totalLength := segmentCumLength[segments-1]

	// Recompute spacings so the grid exactly tiles; no ragged remainder.
	nDip := int(math.Ceil(width / dipSpacing))
	if nDip < 1 {
		nDip = 1
	}
	nStrike := int(math.Ceil(totalLength / strikeSpacing))
	if nStrike < 1 {
		nStrike = 1
	}
	effDip := width / float64(nDip)
	effStrike := totalLength / float64(nStrike)
	rows := nDip + 1
	cols := nStrike + 1

	hStep := effDip * math.Cos(dip)
	vStep := effDip * math.Sin(dip)

	locs := make([]geo.Location, rows*cols)
	for col := 0; col < cols; col++ {
		along := float64(col) * effStrike

		// Locate the containing trace segment by cumulative distance. A
		// final grid point that steps just past the end stays in the last
		// segment.
		seg := 0
		for seg < segments-1 && along > segmentCumLength[seg] {
			seg++
		}
		remaining := along
		if seg > 0 {
			remaining = along - segmentCumLength[seg-1]
		}

		traceLoc := geo.PointAt(trace[seg], geo.LocationVector{
			Azimuth:    segmentAzimuth[seg],
			Horizontal: remaining,
		})
		top := geo.Location{Lat: traceLoc.Lat, Lon: traceLoc.Lon, Depth: depth}
		locs[col] = top

		for row := 1; row < rows; row++ {
			locs[row*cols+col] = geo.PointAt(top, geo.LocationVector{
				Azimuth:    dipDir,
				Horizontal: float64(row) * hStep,
				Vertical:   float64(row) * vStep,
			})
		}
	}

	return &GriddedSurface{
		trace:         trace,
		depth:         depth,
		dip:           dip,
		dipDir:        dipDir,
		width:         width,
		rows:          rows,
		cols:          cols,
		dipSpacing:    effDip,
		strikeSpacing: effStrike,
		locs:          locs,
	}
}
