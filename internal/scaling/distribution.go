package scaling

import (
	"fmt"
	"math"
)

// WeightedDimensions pairs rupture dimensions with an epistemic weight.
type WeightedDimensions struct {
	Dimensions
	Weight float64 `json:"weight"`
}

// Distribution discretization: 11 points spanning ±2σ with σ = 0.25 in
// log-area units.
const (
	distributionPoints = 11
	distributionSigma  = 0.25
	distributionLevels = 2.0
)

// DimensionsDistribution returns a ±2σ distribution of dimensions and
// associated weights, discretized at 11 points. Only the PEER model defines
// an area uncertainty; all other models report ErrUnsupported.
func (m Model) DimensionsDistribution(mag, maxWidth float64) ([]WeightedDimensions, error) {
	if m != Peer {
		return nil, fmt.Errorf("%s: dimensions distribution: %w", m, ErrUnsupported)
	}

	area := math.Pow(10, mag-4.0)
	offsets, weights := gaussianDiscretization(distributionPoints, distributionSigma, distributionLevels)

	dist := make([]WeightedDimensions, distributionPoints)
	for i := range dist {
		scaled := area * math.Pow(10, offsets[i])
		dist[i] = WeightedDimensions{
			Dimensions: peerAreaDimensions(scaled, maxWidth),
			Weight:     weights[i],
		}
	}
	return dist, nil
}

// peerAreaDimensions sizes a rupture of the given area, maintaining aspect
// ratio 2 until the width saturates.
func peerAreaDimensions(area, maxWidth float64) Dimensions {
	width := math.Sqrt(area / 2)
	if width < maxWidth {
		return Dimensions{Length: width * 2, Width: width}
	}
	return Dimensions{Length: area / maxWidth, Width: maxWidth}
}

// gaussianDiscretization evenly samples a zero-mean normal density at n
// points across ±levels·sigma and normalizes the weights to sum to 1.
func gaussianDiscretization(n int, sigma, levels float64) (offsets, weights []float64) {
	offsets = make([]float64, n)
	weights = make([]float64, n)

	span := 2 * levels * sigma
	step := span / float64(n-1)
	var sum float64
	for i := range offsets {
		x := -levels*sigma + float64(i)*step
		offsets[i] = x
		weights[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return offsets, weights
}
