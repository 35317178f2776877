package utils

import "testing"

func TestDistanceMeters(t *testing.T) {
	// Grand Rapids, MI to Lansing, MI is roughly 96 km as the crow flies.
	d := DistanceMeters(42.9634, -85.6681, 42.7325, -84.5555)
	if d < 85000 || d > 105000 {
		t.Errorf("DistanceMeters = %.0f m, expected roughly 96 km", d)
	}

	if d := DistanceMeters(42.9634, -85.6681, 42.9634, -85.6681); d != 0 {
		t.Errorf("distance to self = %.2f m, expected 0", d)
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(42.96, -85.66); err != nil {
		t.Errorf("valid coordinate rejected: %v", err)
	}
	if err := ValidateCoordinate(0, 0); err != nil {
		t.Errorf("null island rejected: %v", err)
	}
	if err := ValidateCoordinate(91, 0); err == nil {
		t.Error("latitude 91 accepted")
	}
	if err := ValidateCoordinate(0, -181); err == nil {
		t.Error("longitude -181 accepted")
	}
}
