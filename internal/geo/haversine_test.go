package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	d := DistanceKm(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Fatalf("expected 0 distance, got %f", d)
	}
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	// London -> Paris is roughly 344 km.
	d := DistanceKm(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d-344) > 10 {
		t.Fatalf("London-Paris distance off: %f", d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(35.6597, 139.7006, -33.8568, 151.2153)
	b := DistanceKm(-33.8568, 151.2153, 35.6597, 139.7006)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestDistanceKm_RadiusBoundary(t *testing.T) {
	// A point ~51 km away falls outside a 50 km radius; the query point
	// itself is inside any radius.
	far := DistanceKm(40.0, -73.0, 40.459, -73.0)
	if far <= 50 {
		t.Fatalf("expected > 50 km, got %f", far)
	}
	if DistanceKm(40.0, -73.0, 40.0, -73.0) > 0 {
		t.Fatalf("query point must be within every radius")
	}
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111 km everywhere.
	d := DistanceKm(10, 20, 11, 20)
	if math.Abs(d-111.19) > 0.5 {
		t.Fatalf("one degree latitude distance off: %f", d)
	}
}
