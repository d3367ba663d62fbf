package core

import (
	"github.com/signalsfoundry/geomag-engine/model"
)

// ValidityGraceYears is how far past the model's validity window a query date
// is still accepted. Published models degrade gracefully for a short period
// after expiry, so queries inside the grace band succeed and are surfaced as
// ValidityGrace for the caller to log; beyond it Extrapolate fails.
const ValidityGraceYears = 1.0

// Validity classifies a query year against a model's validity window.
type Validity int

const (
	// ValidityInside means the year is within [ValidFrom, ValidTo].
	ValidityInside Validity = iota
	// ValidityGrace means the year is outside the window but within the
	// grace tolerance; results are usable with a warning.
	ValidityGrace
	// ValidityExpired means the year is beyond the grace tolerance.
	ValidityExpired
)

// ModelValidity reports where the decimal year falls relative to the set's
// validity window.
func ModelValidity(set *model.CoefficientSet, decimalYear float64) Validity {
	switch {
	case decimalYear >= set.ValidFrom() && decimalYear <= set.ValidTo():
		return ValidityInside
	case decimalYear >= set.ValidFrom()-ValidityGraceYears && decimalYear <= set.ValidTo()+ValidityGraceYears:
		return ValidityGrace
	default:
		return ValidityExpired
	}
}

// Extrapolated is the per-query snapshot of a coefficient set advanced to one
// decimal year: value(t) = base + rate*(t - epoch), per coefficient. It is
// owned by the evaluation that produced it and holds the rates alongside so
// the secular-variation summation needs no second lookup.
type Extrapolated struct {
	Year      float64
	MaxDegree int

	// Triangular (degree, order) tables; row n holds orders 0..n.
	G, H       [][]float64
	GDot, HDot [][]float64
}

// Extrapolate advances the set's coefficients linearly to decimalYear.
// Years inside the grace band succeed (callers can distinguish them with
// ModelValidity); years beyond it return OutOfValidityRangeError.
// Extrapolation at exactly the epoch reproduces the base coefficients.
func Extrapolate(set *model.CoefficientSet, decimalYear float64) (*Extrapolated, error) {
	if ModelValidity(set, decimalYear) == ValidityExpired {
		return nil, &OutOfValidityRangeError{
			Year:      decimalYear,
			ValidFrom: set.ValidFrom(),
			ValidTo:   set.ValidTo(),
		}
	}

	n := set.MaxDegree()
	ec := &Extrapolated{
		Year:      decimalYear,
		MaxDegree: n,
		G:         newTriangularTable(n),
		H:         newTriangularTable(n),
		GDot:      newTriangularTable(n),
		HDot:      newTriangularTable(n),
	}

	dt := decimalYear - set.Epoch()
	for deg := 1; deg <= n; deg++ {
		for ord := 0; ord <= deg; ord++ {
			g, h := set.MainField(deg, ord)
			gDot, hDot := set.SecularRate(deg, ord)
			ec.G[deg][ord] = g + gDot*dt
			ec.H[deg][ord] = h + hDot*dt
			ec.GDot[deg][ord] = gDot
			ec.HDot[deg][ord] = hDot
		}
	}
	return ec, nil
}
