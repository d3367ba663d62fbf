package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/geomag-engine/model"
)

func TestGeodeticToSpherical_Equator(t *testing.T) {
	sph, err := GeodeticToSpherical(model.GeodeticPosition{LatitudeDeg: 0, LongitudeDeg: 30, HeightKm: 0})
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}
	// On the equator the geocentric radius is the semi-major axis and the
	// latitude delta vanishes.
	if math.Abs(sph.RadiusKm-6378.137) > 1e-9 {
		t.Fatalf("equator radius = %v, want 6378.137", sph.RadiusKm)
	}
	if sph.LatitudeDeg != 0 {
		t.Fatalf("equator geocentric latitude = %v, want 0", sph.LatitudeDeg)
	}
	if sph.SinDelta != 0 || sph.CosDelta != 1 {
		t.Fatalf("equator rotation terms = (%v, %v), want (0, 1)", sph.SinDelta, sph.CosDelta)
	}
}

func TestGeodeticToSpherical_Pole(t *testing.T) {
	sph, err := GeodeticToSpherical(model.GeodeticPosition{LatitudeDeg: 90, LongitudeDeg: 0, HeightKm: 0})
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}
	// Polar radius is the semi-minor axis a*(1-f).
	wantRadius := 6378.137 * (1 - 1.0/298.257223563)
	if math.Abs(sph.RadiusKm-wantRadius) > 1e-6 {
		t.Fatalf("polar radius = %v, want %v", sph.RadiusKm, wantRadius)
	}
	if math.Abs(sph.LatitudeDeg-90) > 1e-9 {
		t.Fatalf("polar geocentric latitude = %v, want 90", sph.LatitudeDeg)
	}
	if math.Abs(sph.SinDelta) > 1e-12 {
		t.Fatalf("polar latitude delta should vanish, sinDelta = %v", sph.SinDelta)
	}
}

func TestGeodeticToSpherical_MidLatitudeDelta(t *testing.T) {
	sph, err := GeodeticToSpherical(model.GeodeticPosition{LatitudeDeg: 45, LongitudeDeg: 0, HeightKm: 0})
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}
	// At 45 degrees the geocentric latitude is smaller than the geodetic by
	// roughly 0.19 degrees on WGS-84.
	delta := 45 - sph.LatitudeDeg
	if delta < 0.18 || delta > 0.20 {
		t.Fatalf("latitude delta at 45N = %v, want ~0.19", delta)
	}
	// sin^2 + cos^2 of the rotation terms must hold.
	if norm := sph.SinDelta*sph.SinDelta + sph.CosDelta*sph.CosDelta; math.Abs(norm-1) > 1e-12 {
		t.Fatalf("rotation terms not normalized: %v", norm)
	}
	// Radius shrinks from the equator toward the poles.
	if sph.RadiusKm >= 6378.137 || sph.RadiusKm <= 6356.0 {
		t.Fatalf("radius at 45N = %v, want between polar and equatorial radii", sph.RadiusKm)
	}
}

func TestGeodeticToSpherical_HeightRaisesRadius(t *testing.T) {
	ground, err := GeodeticToSpherical(model.GeodeticPosition{LatitudeDeg: 0, HeightKm: 0})
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}
	orbit, err := GeodeticToSpherical(model.GeodeticPosition{LatitudeDeg: 0, HeightKm: 400})
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}
	if math.Abs(orbit.RadiusKm-ground.RadiusKm-400) > 1e-9 {
		t.Fatalf("equatorial radius at 400 km = %v, want ground+400", orbit.RadiusKm)
	}
}

func TestGeodeticToSpherical_RejectsOutOfRange(t *testing.T) {
	cases := []model.GeodeticPosition{
		{LatitudeDeg: 90.001},
		{LatitudeDeg: -91},
		{LatitudeDeg: 0, HeightKm: MaxHeightKm + 1},
		{LatitudeDeg: 0, HeightKm: MinHeightKm - 1},
	}
	for _, pos := range cases {
		if _, err := GeodeticToSpherical(pos); err == nil {
			t.Fatalf("GeodeticToSpherical(%+v) should fail", pos)
		} else if _, ok := err.(*PositionOutOfRangeError); !ok {
			t.Fatalf("GeodeticToSpherical(%+v) error type = %T, want *PositionOutOfRangeError", pos, err)
		}
	}
}

func TestNormalizeLongitude(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, -180},
		{-180, -180},
		{359, -1},
		{-365, -5},
		{540, -180},
		{-105, -105},
	}
	for _, c := range cases {
		if got := NormalizeLongitude(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("NormalizeLongitude(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
