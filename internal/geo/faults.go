package geo

import "fmt"

// Range limits for fault geometry inputs. Depth and width ceilings cover the
// deepest subduction interface geometries in the hazard models this engine
// serves.
const (
	MaxDepth          = 700.0 // km
	MaxInterfaceWidth = 200.0 // km
)

// ValidateDip checks that a dip in degrees lies in (0, 90].
func ValidateDip(dip float64) (float64, error) {
	if dip <= 0 || dip > 90 {
		return 0, fmt.Errorf("dip must be in (0, 90]°, got %g", dip)
	}
	return dip, nil
}

// ValidateStrike checks that an azimuth in degrees lies in [0, 360).
func ValidateStrike(strike float64) (float64, error) {
	if strike < 0 || strike >= 360 {
		return 0, fmt.Errorf("strike must be in [0, 360)°, got %g", strike)
	}
	return strike, nil
}

// ValidateDepth checks that a depth in km lies in [0, MaxDepth].
func ValidateDepth(depth float64) (float64, error) {
	if depth < 0 || depth > MaxDepth {
		return 0, fmt.Errorf("depth must be in [0, %g] km, got %g", MaxDepth, depth)
	}
	return depth, nil
}

// ValidateWidth checks that a down-dip width in km lies in (0, MaxInterfaceWidth].
func ValidateWidth(width float64) (float64, error) {
	if width <= 0 || width > MaxInterfaceWidth {
		return 0, fmt.Errorf("width must be in (0, %g] km, got %g", MaxInterfaceWidth, width)
	}
	return width, nil
}
