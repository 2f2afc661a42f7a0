package surface

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
)

func straightTrace() []geo.Location {
	return []geo.Location{
		geo.NewLocation(34.0, -118.0),
		geo.NewLocation(35.0, -118.0),
	}
}

func bentTrace() []geo.Location {
	return []geo.Location{
		geo.NewLocation(34.0, -118.0),
		geo.NewLocation(34.5, -118.0),
		geo.NewLocation(34.9, -117.7),
	}
}

func TestBuildGrid(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(45).
		Depth(2).
		Width(15).
		Build()
	require.NoError(t, err)

	// 15 km width at 1 km spacing tiles into 15 rows of cells.
	assert.Equal(t, 16, s.Rows())

	dipSpacing, strikeSpacing := s.Spacing()
	assert.InDelta(t, 1.0, dipSpacing, 1e-9)
	assert.LessOrEqual(t, strikeSpacing, 1.0)
	assert.Greater(t, strikeSpacing, 0.9)

	// The effective spacings exactly tile the surface.
	trace, err := geo.NewTrace(straightTrace())
	require.NoError(t, err)
	assert.InDelta(t, trace.Length(), float64(s.Cols()-1)*strikeSpacing, 1e-9)
	assert.InDelta(t, 15.0, float64(s.Rows()-1)*dipSpacing, 1e-9)

	assert.Equal(t, 45.0, s.Dip())
	assert.Equal(t, 15.0, s.Width())
	assert.Equal(t, 2.0, s.Depth())
	assert.InDelta(t, 0.0, s.Strike(), 1e-6)
	assert.InDelta(t, 90.0, s.DipDirection(), 1e-6)
}

func TestGridTopRowFollowsTrace(t *testing.T) {
	s, err := NewBuilder().
		Trace(bentTrace()).
		Dip(50).
		Depth(3).
		Width(12).
		Build()
	require.NoError(t, err)

	first := s.At(0, 0)
	assert.InDelta(t, 34.0, first.Lat, 1e-9)
	assert.InDelta(t, -118.0, first.Lon, 1e-9)
	assert.Equal(t, 3.0, first.Depth)

	last := s.At(0, s.Cols()-1)
	assert.InDelta(t, 34.9, last.Lat, 1e-3)
	assert.InDelta(t, -117.7, last.Lon, 1e-3)

	for c := 0; c < s.Cols(); c++ {
		assert.Equal(t, 3.0, s.At(0, c).Depth, "top row stays at the upper depth")
	}
}

func TestGridDepthIncreasesDownDip(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(30).
		Depth(0).
		Width(20).
		Build()
	require.NoError(t, err)

	vStep := 20.0 / float64(s.Rows()-1) * math.Sin(30*math.Pi/180)
	for c := 0; c < s.Cols(); c += 7 {
		for r := 1; r < s.Rows(); r++ {
			assert.Greater(t, s.At(r, c).Depth, s.At(r-1, c).Depth, "row %d col %d", r, c)
			assert.InDelta(t, float64(r)*vStep, s.At(r, c).Depth, 1e-9)
		}
	}
}

func TestGridRowSpacingIsUniform(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(60).
		Depth(1).
		Width(14).
		Spacing(2).
		Build()
	require.NoError(t, err)

	dipSpacing, _ := s.Spacing()
	for r := 1; r < s.Rows(); r++ {
		a, b := s.At(r-1, 5), s.At(r, 5)
		h := geo.HorizontalDistance(a, b)
		v := b.Depth - a.Depth
		assert.InDelta(t, dipSpacing, math.Hypot(h, v), 1e-3, "row %d", r)
	}
}

func TestBuildFromLowerDepth(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(30).
		Depth(0).
		LowerDepth(10).
		Build()
	require.NoError(t, err)

	// width = (lower - upper) / sin(dip) = 10 / 0.5
	assert.InDelta(t, 20.0, s.Width(), 1e-9)
	assert.InDelta(t, 10.0, s.At(s.Rows()-1, 0).Depth, 1e-9)
}

func TestBuildWithExplicitDipDir(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(45).
		Depth(0).
		Width(10).
		DipDir(135).
		Build()
	require.NoError(t, err)
	assert.InDelta(t, 135.0, s.DipDirection(), 1e-9)
}

func TestBuildIsDeterministic(t *testing.T) {
	build := func() *GriddedSurface {
		s, err := NewBuilder().
			Trace(bentTrace()).
			Dip(40).
			Depth(1).
			Width(13).
			SpacingDipStrike(1.5, 2).
			Build()
		require.NoError(t, err)
		return s
	}

	a, b := build(), build()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			assert.Equal(t, a.At(r, c), b.At(r, c), "row %d col %d", r, c)
		}
	}
}

func TestBuilderValidation(t *testing.T) {
	valid := func() *Builder {
		return NewBuilder().Trace(straightTrace()).Dip(45).Depth(0).Width(10)
	}

	// The fully specified builder is the control.
	_, err := valid().Build()
	require.NoError(t, err)

	tests := []struct {
		name    string
		builder *Builder
		wantMsg string
	}{
		{"missing trace", NewBuilder().Dip(45).Depth(0).Width(10), "trace not set"},
		{"missing dip", NewBuilder().Trace(straightTrace()).Depth(0).Width(10), "dip not set"},
		{"missing depth", NewBuilder().Trace(straightTrace()).Dip(45).Width(10), "depth not set"},
		{"missing width", NewBuilder().Trace(straightTrace()).Dip(45).Depth(0), "exactly one of width or lower depth"},
		{"width and lower depth", valid().LowerDepth(12), "but not both"},
		{"single point trace", NewBuilder().Trace(straightTrace()[:1]).Dip(45).Depth(0).Width(10), "at least 2 points"},
		{"zero dip", valid().Dip(0), "dip"},
		{"steep dip", valid().Dip(90.5), "dip"},
		{"negative depth", NewBuilder().Trace(straightTrace()).Dip(45).Depth(-1).Width(10), "depth"},
		{"excessive width", NewBuilder().Trace(straightTrace()).Dip(45).Depth(0).Width(201), "width"},
		{"bad dip direction", valid().DipDir(360), "dip direction"},
		{"tiny spacing", valid().Spacing(0.001), "spacing"},
		{"huge spacing", valid().Spacing(25), "spacing"},
		{"inverted depths", NewBuilder().Trace(straightTrace()).Dip(45).Depth(5).LowerDepth(4), "above upper depth"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			require.Error(t, err)

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), "want ValidationError, got %T", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder().Trace(straightTrace()).Dip(45).Depth(0).Width(10)
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been used")
}

func TestBuilderReportsFirstError(t *testing.T) {
	_, err := NewBuilder().
		Trace(straightTrace()).
		Dip(-5).
		Depth(-1).
		Width(10).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dip")
}

func TestCentroid(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(90).
		Depth(0).
		Width(10).
		Build()
	require.NoError(t, err)

	c := s.Centroid()
	assert.InDelta(t, 34.5, c.Lat, 0.01)
	assert.InDelta(t, -118.0, c.Lon, 0.01)
	assert.InDelta(t, 5.0, c.Depth, 1e-6)
}

func TestPerimeter(t *testing.T) {
	s, err := NewBuilder().
		Trace(straightTrace()).
		Dip(45).
		Depth(0).
		Width(10).
		Build()
	require.NoError(t, err)

	p := s.Perimeter()
	assert.Len(t, p, 2*s.Rows()+2*s.Cols()-4)
	assert.Equal(t, s.At(0, 0), p[0])
	assert.Equal(t, s.At(0, s.Cols()-1), p[s.Cols()-1])
}
