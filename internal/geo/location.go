package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Location is a WGS-84 coordinate with a depth in km, positive down.
type Location struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Depth float64 `json:"depth,omitempty"`
}

// NewLocation creates a Location at the surface (zero depth).
func NewLocation(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon}
}

// Point returns the horizontal component as an orb [lon, lat] point.
func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// FromPoint creates a Location from an orb [lon, lat] point and a depth in km.
func FromPoint(p orb.Point, depth float64) Location {
	return Location{Lat: p.Lat(), Lon: p.Lon(), Depth: depth}
}

func (l Location) String() string {
	return fmt.Sprintf("%.5f, %.5f, %.5f", l.Lat, l.Lon, l.Depth)
}
