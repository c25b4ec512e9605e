// Package units provides shared constants, validation and conversion for
// speed units. Bucket ranges and thresholds are expressed in mph; samples
// recorded in other units are converted on the way in.
package units

import "fmt"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

const (
	mpsToMPH = 2.2369362920544
	mpsToKPH = 3.6
)

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ToMPS converts a speed expressed in unit into meters per second.
func ToMPS(speed float64, unit string) (float64, error) {
	switch unit {
	case MPS:
		return speed, nil
	case MPH:
		return speed / mpsToMPH, nil
	case KMPH, KPH:
		return speed / mpsToKPH, nil
	default:
		return 0, fmt.Errorf("invalid unit %q: must be one of %s", unit, GetValidUnitsString())
	}
}

// FromMPS converts a speed in meters per second to the target unit.
func FromMPS(speedMPS float64, unit string) (float64, error) {
	switch unit {
	case MPS:
		return speedMPS, nil
	case MPH:
		return speedMPS * mpsToMPH, nil
	case KMPH, KPH:
		return speedMPS * mpsToKPH, nil
	default:
		return 0, fmt.Errorf("invalid unit %q: must be one of %s", unit, GetValidUnitsString())
	}
}

// Convert converts speed from one unit to another. Converting a unit to
// itself returns the input unchanged so mph data keeps its exact values.
func Convert(speed float64, from, to string) (float64, error) {
	if from == to {
		if !IsValid(from) {
			return 0, fmt.Errorf("invalid unit %q: must be one of %s", from, GetValidUnitsString())
		}
		return speed, nil
	}
	mps, err := ToMPS(speed, from)
	if err != nil {
		return 0, err
	}
	return FromMPS(mps, to)
}
