package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/geomag-engine/model"
)

// dipoleSet is a degree-1 model whose field has a closed form, making the
// whole pipeline checkable without a reference table.
func dipoleSet(t *testing.T) *model.CoefficientSet {
	t.Helper()
	set, err := model.NewCoefficientSet("DIPOLE-2020", 2020.0, 2020.0, 2025.0, []model.Coefficient{
		{Degree: 1, Order: 0, G: -29404.5, GDot: 6.7},
		{Degree: 1, Order: 1, G: -1450.7, H: 4652.9, GDot: 7.7, HDot: -25.1},
	})
	if err != nil {
		t.Fatalf("NewCoefficientSet: %v", err)
	}
	return set
}

// dipoleReference evaluates the degree-1 field from the potential in
// colatitude form, independently of the engine's recurrence machinery, and
// rotates it into geodetic NED.
func dipoleReference(t *testing.T, set *model.CoefficientSet, pos model.GeodeticPosition, decimalYear float64) (north, east, down float64) {
	t.Helper()

	sph, err := GeodeticToSpherical(pos)
	if err != nil {
		t.Fatalf("GeodeticToSpherical: %v", err)
	}

	dt := decimalYear - set.Epoch()
	g10b, _ := set.MainField(1, 0)
	g11b, h11b := set.MainField(1, 1)
	g10d, _ := set.SecularRate(1, 0)
	g11d, h11d := set.SecularRate(1, 1)
	g10 := g10b + g10d*dt
	g11 := g11b + g11d*dt
	h11 := h11b + h11d*dt

	colat := (90 - sph.LatitudeDeg) * math.Pi / 180
	lon := sph.LongitudeDeg * math.Pi / 180
	cube := math.Pow(GeomagneticRadiusKm/sph.RadiusKm, 3)
	lonTerm := g11*math.Cos(lon) + h11*math.Sin(lon)

	br := 2 * cube * (g10*math.Cos(colat) + lonTerm*math.Sin(colat))
	btheta := cube * (g10*math.Sin(colat) - lonTerm*math.Cos(colat))
	bphi := cube * (g11*math.Sin(lon) - h11*math.Cos(lon))

	x := -btheta
	y := bphi
	z := -br

	north = x*sph.CosDelta - z*sph.SinDelta
	east = y
	down = x*sph.SinDelta + z*sph.CosDelta
	return north, east, down
}

func TestEvaluateField_MatchesDipoleClosedForm(t *testing.T) {
	set := dipoleSet(t)
	date := model.Date{Year: 2020, Month: time.July, Day: 1}
	year, err := DecimalYear(date)
	if err != nil {
		t.Fatalf("DecimalYear: %v", err)
	}

	positions := []model.GeodeticPosition{
		{LatitudeDeg: 40.0, LongitudeDeg: -105.0, HeightKm: 0},
		{LatitudeDeg: -35.5, LongitudeDeg: 18.3, HeightKm: 100},
		{LatitudeDeg: 0, LongitudeDeg: 0, HeightKm: 0},
		{LatitudeDeg: 71.2, LongitudeDeg: 179.9, HeightKm: 10},
		{LatitudeDeg: -89.5, LongitudeDeg: 60, HeightKm: 0},
	}

	for _, pos := range positions {
		got, err := EvaluateField(set, pos, date)
		if err != nil {
			t.Fatalf("EvaluateField(%+v): %v", pos, err)
		}
		north, east, down := dipoleReference(t, set, pos, year)

		if math.Abs(got.North-north) > 1e-8 || math.Abs(got.East-east) > 1e-8 || math.Abs(got.Down-down) > 1e-8 {
			t.Fatalf("at %+v: got (%v, %v, %v), closed form (%v, %v, %v)",
				pos, got.North, got.East, got.Down, north, east, down)
		}

		// Derived elements must be consistent with the components.
		wantH := math.Hypot(north, east)
		wantF := math.Hypot(wantH, down)
		if math.Abs(got.Horizontal-wantH) > 1e-8 || math.Abs(got.Total-wantF) > 1e-8 {
			t.Fatalf("at %+v: H/F = %v/%v, want %v/%v", pos, got.Horizontal, got.Total, wantH, wantF)
		}
		wantD := math.Atan2(east, north) * 180 / math.Pi
		wantI := math.Atan2(down, wantH) * 180 / math.Pi
		if math.Abs(got.DeclinationDeg-wantD) > 1e-9 || math.Abs(got.InclinationDeg-wantI) > 1e-9 {
			t.Fatalf("at %+v: D/I = %v/%v, want %v/%v", pos, got.DeclinationDeg, got.InclinationDeg, wantD, wantI)
		}
	}
}

func TestEvaluateField_LongitudePeriodicity(t *testing.T) {
	set := testSet(t)
	date := model.Date{Year: 2021, Month: time.March, Day: 15}

	for _, lon := range []float64{0, 47, -105, 179} {
		a, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 33, LongitudeDeg: lon}, date)
		if err != nil {
			t.Fatalf("EvaluateField: %v", err)
		}
		b, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 33, LongitudeDeg: lon + 360}, date)
		if err != nil {
			t.Fatalf("EvaluateField: %v", err)
		}
		if math.Abs(a.North-b.North) > 1e-9 || math.Abs(a.East-b.East) > 1e-9 || math.Abs(a.Down-b.Down) > 1e-9 {
			t.Fatalf("field at lon %v and %v differ: %+v vs %+v", lon, lon+360, a, b)
		}
	}
}

func TestEvaluateField_PoleMagnitudeIndependentOfLongitude(t *testing.T) {
	set := testSet(t)
	date := model.Date{Year: 2022, Month: time.June, Day: 1}

	var firstTotal, firstDown float64
	for i, lon := range []float64{0, 45, 90, 133.7, -77} {
		got, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 90, LongitudeDeg: lon}, date)
		if err != nil {
			t.Fatalf("EvaluateField at pole: %v", err)
		}
		if i == 0 {
			firstTotal, firstDown = got.Total, got.Down
			continue
		}
		// The NED frame spins with longitude at the pole, so individual
		// horizontal components may rotate, but magnitude and the vertical
		// component must not change.
		if math.Abs(got.Total-firstTotal) > 1e-9 {
			t.Fatalf("total intensity at pole varies with longitude: %v vs %v", got.Total, firstTotal)
		}
		if math.Abs(got.Down-firstDown) > 1e-9 {
			t.Fatalf("down component at pole varies with longitude: %v vs %v", got.Down, firstDown)
		}
	}
}

func TestEvaluateField_DegenerateAtAxialDipolePole(t *testing.T) {
	set, err := model.NewCoefficientSet("AXIAL", 2020.0, 2020.0, 2025.0, []model.Coefficient{
		{Degree: 1, Order: 0, G: -30000},
	})
	if err != nil {
		t.Fatalf("NewCoefficientSet: %v", err)
	}

	got, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 90, LongitudeDeg: 12}, model.Date{Year: 2021, Month: time.January, Day: 1})
	if err != nil {
		t.Fatalf("EvaluateField: %v", err)
	}
	if !got.Degenerate {
		t.Fatalf("axial dipole at the pole should be flagged degenerate, got %+v", got)
	}
	if got.DeclinationDeg != 0 || got.DeclinationRateDeg != 0 {
		t.Fatalf("degenerate declination must be reported as 0, got D=%v dD=%v", got.DeclinationDeg, got.DeclinationRateDeg)
	}
	if math.IsNaN(got.InclinationDeg) || math.IsNaN(got.Total) {
		t.Fatalf("degenerate result leaked NaN: %+v", got)
	}
	// Straight down (or up) at the pole.
	if math.Abs(math.Abs(got.InclinationDeg)-90) > 1e-9 {
		t.Fatalf("inclination at axial pole = %v, want +-90", got.InclinationDeg)
	}
}

func TestEvaluateField_ErrorPropagation(t *testing.T) {
	set := dipoleSet(t)

	if _, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 40}, model.Date{Year: 2021, Month: time.February, Day: 30}); err == nil {
		t.Fatal("invalid date should fail")
	}
	if _, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 95}, model.Date{Year: 2021, Month: time.June, Day: 1}); err == nil {
		t.Fatal("out-of-range latitude should fail")
	}
	if _, err := EvaluateField(set, model.GeodeticPosition{LatitudeDeg: 40}, model.Date{Year: 2030, Month: time.June, Day: 1}); err == nil {
		t.Fatal("date beyond validity grace should fail")
	}
}
