package surface

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/rupture-distance-service/internal/geo"
)

// DistanceTransform computes rRup and rJB to a rupture plane analytically,
// without materializing a grid. Each trace segment's parallelogram is rotated
// into the xy-plane of a local cartesian frame at construction; a query then
// reduces to a 2-D point-in-polygon test plus point-to-edge distances, O(1)
// per segment.
//
// The frame maps x to latitude, y to longitude, and z to depth (positive
// down), preserving azimuths as clockwise rotation about the z-axis.
type DistanceTransform struct {
	segments []transformSegment
}

type transformSegment struct {
	origin geo.Location
	rot    geo.Rotation

	// Closed 4-corner outlines in the rotated frame: the rupture plane for
	// rRup and its flattened surface projection for rJB.
	rup orb.Ring
	jb  orb.Ring
}

// NewDistanceTransform precomputes per-segment rotations and outlines for the
// given trace, dip (degrees), and down-dip width (km). The dip direction is
// the trace-normal of the parent surface, applied uniformly to all segments.
func NewDistanceTransform(trace geo.Trace, dip, width float64) (*DistanceTransform, error) {
	if len(trace) < 2 {
		return nil, validationErrorf("trace must have at least 2 points, got %d", len(trace))
	}
	if _, err := geo.ValidateDip(dip); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if _, err := geo.ValidateWidth(width); err != nil {
		return nil, validationErrorf("%v", err)
	}

	dipRad := dip * math.Pi / 180
	dipDir := trace.DipDirection()

	segments := make([]transformSegment, len(trace)-1)
	for i := range segments {
		v := geo.Vector(trace[i], trace[i+1])
		rot := segmentRotation(v.Azimuth, dipRad, dipDir, width)

		corners := planeCorners(v.Azimuth, dipRad, dipDir, width, v.Horizontal)
		segments[i] = transformSegment{
			origin: trace[i],
			rot:    rot,
			rup:    outline(rotated(corners, rot)),
			jb:     outline(flattened(corners)),
		}
	}
	return &DistanceTransform{segments: segments}, nil
}

// segmentRotation builds the rotation that carries the segment's plane into
// the xy-plane with the top edge along the x-axis. The down-dip corner vector
// is first spun about z to measure the true dip of the parallelogram, which
// may differ from the nominal dip where the dip direction is not normal to
// the segment.
func segmentRotation(strike, dip, dipDir, width float64) geo.Rotation {
	zRot := geo.RotationZ(-strike)
	d := zRot.Apply(geo.NewVec3(dipDir, dip, width))
	surfDip := geo.Vec3{Y: d.Y, Z: d.Z}.Plunge()
	return geo.RotationX(-surfDip).Compose(zRot)
}

// planeCorners returns the segment parallelogram as [top-near, top-far,
// bottom-near, bottom-far], with the top-near corner at the origin.
func planeCorners(strike, dip, dipDir, width, length float64) [4]geo.Vec3 {
	top := geo.NewVec3(strike, 0, length)
	bottom := geo.NewVec3(dipDir, dip, width)
	return [4]geo.Vec3{{}, top, bottom, top.Add(bottom)}
}

func rotated(corners [4]geo.Vec3, rot geo.Rotation) [4]geo.Vec3 {
	return [4]geo.Vec3{corners[0], rot.Apply(corners[1]), rot.Apply(corners[2]), rot.Apply(corners[3])}
}

func flattened(corners [4]geo.Vec3) [4]geo.Vec3 {
	for i := range corners {
		corners[i].Z = 0
	}
	return corners
}

// outline builds the closed 2-D boundary top-near → top-far → bottom-far →
// bottom-near.
func outline(corners [4]geo.Vec3) orb.Ring {
	return orb.Ring{
		{corners[0].X, corners[0].Y},
		{corners[1].X, corners[1].Y},
		{corners[3].X, corners[3].Y},
		{corners[2].X, corners[2].Y},
		{corners[0].X, corners[0].Y},
	}
}

// DistanceRup returns the shortest 3-D distance from the location to the
// rupture plane, in km.
func (t *DistanceTransform) DistanceRup(loc geo.Location) float64 {
	distance := math.MaxFloat64
	for i := range t.segments {
		s := &t.segments[i]
		v := geo.Vector(s.origin, loc)
		p := geo.NewVec3(v.Azimuth, 0, v.Horizontal)
		p.Z += v.Vertical
		distance = math.Min(distance, outlineDistance(s.rot.Apply(p), s.rup))
	}
	return distance
}

// DistanceJB returns the shortest horizontal distance from the location to
// the rupture's surface projection, in km.
func (t *DistanceTransform) DistanceJB(loc geo.Location) float64 {
	distance := math.MaxFloat64
	for i := range t.segments {
		s := &t.segments[i]
		v := geo.Vector(s.origin, loc)
		p := geo.NewVec3(v.Azimuth, 0, v.Horizontal)
		distance = math.Min(distance, outlineDistance(p, s.jb))
	}
	return distance
}

// outlineDistance measures from a frame-local point to the segment outline.
// Inside the outline the distance is the out-of-plane offset alone; outside
// it combines that offset with the planar distance to the nearest edge. A
// point over the plane but off the trace therefore reports its perpendicular
// offset, the true 3-D distance to the planar patch.
func outlineDistance(p geo.Vec3, ring orb.Ring) float64 {
	pt := orb.Point{p.X, p.Y}
	if planar.RingContains(ring, pt) {
		return math.Abs(p.Z)
	}
	edge := planar.DistanceFrom(orb.LineString(ring), pt)
	return math.Sqrt(p.Z*p.Z + edge*edge)
}
