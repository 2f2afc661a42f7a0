package geo

import "math"

// The cartesian frame used for rupture-plane work maps x to latitude (north),
// y to longitude (east), and z to depth (positive down). Azimuths measured
// clockwise from north are then plain rotations from x toward y about z.

// Vec3 is a vector in the rupture-plane cartesian frame.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a vector of the given magnitude pointing along an azimuth
// (radians clockwise from north) and plunging below the horizontal by the
// given angle (radians, positive down).
func NewVec3(azimuth, plunge, magnitude float64) Vec3 {
	return Vec3{
		X: magnitude * math.Cos(plunge) * math.Cos(azimuth),
		Y: magnitude * math.Cos(plunge) * math.Sin(azimuth),
		Z: magnitude * math.Sin(plunge),
	}
}

// Add returns the vector sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Plunge returns the angle of the vector below the horizontal plane in
// radians, positive down.
func (v Vec3) Plunge() float64 {
	return math.Atan2(v.Z, math.Hypot(v.X, v.Y))
}

// Rotation is a 3-D rotation matrix. The zero value is not valid; use a
// constructor.
type Rotation struct {
	m [3][3]float64
}

// RotationZ returns the rotation of angle radians about the z-axis, carrying
// x toward y for positive angles.
func RotationZ(angle float64) Rotation {
	sin, cos := math.Sincos(angle)
	return Rotation{m: [3][3]float64{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}}
}

// RotationX returns the rotation of angle radians about the x-axis, carrying
// y toward z for positive angles.
func RotationX(angle float64) Rotation {
	sin, cos := math.Sincos(angle)
	return Rotation{m: [3][3]float64{
		{1, 0, 0},
		{0, cos, -sin},
		{0, sin, cos},
	}}
}

// Compose returns the rotation that applies o first, then r.
func (r Rotation) Compose(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += r.m[i][k] * o.m[k][j]
			}
		}
	}
	return out
}

// Apply returns a new vector rotated by r. The input is never modified.
func (r Rotation) Apply(v Vec3) Vec3 {
	return Vec3{
		X: r.m[0][0]*v.X + r.m[0][1]*v.Y + r.m[0][2]*v.Z,
		Y: r.m[1][0]*v.X + r.m[1][1]*v.Y + r.m[1][2]*v.Z,
		Z: r.m[2][0]*v.X + r.m[2][1]*v.Y + r.m[2][2]*v.Z,
	}
}
