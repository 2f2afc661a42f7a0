package scaling

import "math"

// FieldCorrectedDistance applies the Field/Worden analytic point-source
// correction: the mean Joyner-Boore distance to a vertically dipping rupture
// of the given length with random strike and hypocenter, observed from the
// given centroid distance. It is the generator behind the embedded correction
// tables (see cmd/gentables).
func FieldCorrectedDistance(ruptureLength, distance float64) float64 {
	if distance == 0 {
		return 0
	}
	corr := 0.7071 + (1.0-0.7071)/(1.0+math.Pow(ruptureLength/(distance*0.87), 1.1))
	return distance * corr
}

// TableSpec describes the correction table a model consumes and the
// magnitude-length relation used to generate it.
type TableSpec struct {
	Model    Model
	Resource string
	Length   func(mag float64) float64
}

// TableSpecs enumerates the point-source-aware models and their table
// resources, in table generation order.
func TableSpecs() []TableSpec {
	return []TableSpec{
		{Model: PointWC94Length, Resource: "rjb_wc94length.dat", Length: lengthWC94},
		{Model: SubGeomatLength, Resource: "rjb_geomatrix.dat", Length: lengthGeomatrix},
		{Model: Somerville, Resource: "rjb_somerville.dat", Length: func(mag float64) float64 {
			return math.Sqrt(math.Pow(10, mag-4.366))
		}},
	}
}

// TableShape reports the expected magnitude and distance bin counts of a
// correction table.
func TableShape() (magBins, distBins int) {
	return tableMagBins, tableDistBins
}

// TableMagnitude returns the center magnitude of table bin i.
func TableMagnitude(i int) float64 {
	return tableMinMag + float64(i)*tableMagStep
}
