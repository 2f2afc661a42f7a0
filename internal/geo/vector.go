package geo

import (
	"math"

	"github.com/paulmach/orb/geo"
)

// LocationVector separates the path between two locations into an azimuth
// (radians clockwise from north), a horizontal great-circle distance, and a
// vertical depth delta, both in km.
type LocationVector struct {
	Azimuth    float64
	Horizontal float64
	Vertical   float64
}

// Vector returns the azimuth, horizontal, and vertical components of the path
// from one location to another.
func Vector(from, to Location) LocationVector {
	return LocationVector{
		Azimuth:    Azimuth(from, to),
		Horizontal: HorizontalDistance(from, to),
		Vertical:   to.Depth - from.Depth,
	}
}

// Azimuth returns the bearing from one location to another in radians,
// normalized to [0, 2π).
func Azimuth(from, to Location) float64 {
	deg := geo.Bearing(from.Point(), to.Point())
	rad := deg * math.Pi / 180
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// HorizontalDistance returns the great-circle distance between the surface
// projections of two locations, in km.
func HorizontalDistance(from, to Location) float64 {
	return geo.Distance(from.Point(), to.Point()) / 1000
}

// PointAt projects a location along a vector: horizontally by the vector's
// azimuth and distance, vertically by its depth delta.
func PointAt(from Location, v LocationVector) Location {
	bearing := v.Azimuth * 180 / math.Pi
	p := geo.PointAtBearingAndDistance(from.Point(), bearing, v.Horizontal*1000)
	return FromPoint(p, from.Depth+v.Vertical)
}
