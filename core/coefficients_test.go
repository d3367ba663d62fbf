package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/geomag-engine/model"
)

func testSet(t *testing.T) *model.CoefficientSet {
	t.Helper()
	set, err := model.NewCoefficientSet("TEST-2020", 2020.0, 2020.0, 2025.0, []model.Coefficient{
		{Degree: 1, Order: 0, G: -29404.5, GDot: 6.7},
		{Degree: 1, Order: 1, G: -1450.7, H: 4652.9, GDot: 7.7, HDot: -25.1},
		{Degree: 2, Order: 0, G: -2500.0, GDot: -11.0},
		{Degree: 2, Order: 1, G: 2982.0, H: -2991.6, GDot: -7.1, HDot: -30.2},
		{Degree: 2, Order: 2, G: 1676.8, H: -734.8, GDot: -2.2, HDot: -23.9},
	})
	if err != nil {
		t.Fatalf("NewCoefficientSet: %v", err)
	}
	return set
}

func TestExtrapolate_AtEpochIsIdentity(t *testing.T) {
	set := testSet(t)
	ec, err := Extrapolate(set, set.Epoch())
	if err != nil {
		t.Fatalf("Extrapolate: %v", err)
	}
	for n := 1; n <= set.MaxDegree(); n++ {
		for m := 0; m <= n; m++ {
			g, h := set.MainField(n, m)
			if ec.G[n][m] != g || ec.H[n][m] != h {
				t.Fatalf("extrapolation at epoch changed (%d,%d): (%v,%v) != (%v,%v)",
					n, m, ec.G[n][m], ec.H[n][m], g, h)
			}
		}
	}
}

func TestExtrapolate_IsLinear(t *testing.T) {
	set := testSet(t)
	ec, err := Extrapolate(set, 2022.5)
	if err != nil {
		t.Fatalf("Extrapolate: %v", err)
	}

	g, _ := set.MainField(1, 0)
	gDot, _ := set.SecularRate(1, 0)
	want := g + gDot*2.5
	if math.Abs(ec.G[1][0]-want) > 1e-12 {
		t.Fatalf("G(1,0) at 2022.5 = %v, want %v", ec.G[1][0], want)
	}

	_, h := set.MainField(2, 1)
	_, hDot := set.SecularRate(2, 1)
	want = h + hDot*2.5
	if math.Abs(ec.H[2][1]-want) > 1e-12 {
		t.Fatalf("H(2,1) at 2022.5 = %v, want %v", ec.H[2][1], want)
	}
}

func TestExtrapolate_GracePeriod(t *testing.T) {
	set := testSet(t)

	// Just past validTo but inside the grace tolerance: allowed.
	if _, err := Extrapolate(set, set.ValidTo()+0.5); err != nil {
		t.Fatalf("Extrapolate inside grace period failed: %v", err)
	}
	if v := ModelValidity(set, set.ValidTo()+0.5); v != ValidityGrace {
		t.Fatalf("ModelValidity just past expiry = %v, want ValidityGrace", v)
	}
	if v := ModelValidity(set, 2022.0); v != ValidityInside {
		t.Fatalf("ModelValidity inside window = %v, want ValidityInside", v)
	}
}

func TestExtrapolate_BeyondGraceFails(t *testing.T) {
	set := testSet(t)

	for _, year := range []float64{set.ValidTo() + ValidityGraceYears + 0.01, set.ValidFrom() - ValidityGraceYears - 0.01} {
		_, err := Extrapolate(set, year)
		if err == nil {
			t.Fatalf("Extrapolate(%v) should fail beyond the grace tolerance", year)
		}
		if _, ok := err.(*OutOfValidityRangeError); !ok {
			t.Fatalf("Extrapolate(%v) error type = %T, want *OutOfValidityRangeError", year, err)
		}
	}
}
