package core

import (
	"fmt"

	"github.com/signalsfoundry/geomag-engine/model"
)

// Finite-difference half-steps per dimension. Small against the physical
// variation scale of the field (hundreds of km / decades), large enough to
// stay clear of floating-point cancellation in the differenced sums.
const (
	GradientStepLatDeg  = 1e-3 // degrees
	GradientStepLonDeg  = 1e-3 // degrees
	GradientStepHeight  = 0.5  // kilometres
	GradientStepTimeYrs = 0.5  // years
)

// Gradient estimates the partial derivatives of the field's scalar
// quantities along one input dimension by central finite differences: the
// full pipeline is evaluated at the query offset by ±step and the results
// differenced over the actual span. Near a latitude bound the offset points
// are clamped into [-90, 90], degrading to a one-sided estimate.
func Gradient(set *model.CoefficientSet, pos model.GeodeticPosition, date model.Date, dim model.Dimension) (model.GradientResult, error) {
	year, err := DecimalYear(date)
	if err != nil {
		return model.GradientResult{}, err
	}

	lo, hi := pos, pos
	yearLo, yearHi := year, year
	var step, span float64

	switch dim {
	case model.DimensionLatitude:
		step = GradientStepLatDeg
		lo.LatitudeDeg = clamp(pos.LatitudeDeg-step, -90, 90)
		hi.LatitudeDeg = clamp(pos.LatitudeDeg+step, -90, 90)
		span = hi.LatitudeDeg - lo.LatitudeDeg
	case model.DimensionLongitude:
		step = GradientStepLonDeg
		lo.LongitudeDeg = pos.LongitudeDeg - step
		hi.LongitudeDeg = pos.LongitudeDeg + step
		span = 2 * step
	case model.DimensionHeight:
		step = GradientStepHeight
		lo.HeightKm = clamp(pos.HeightKm-step, MinHeightKm, MaxHeightKm)
		hi.HeightKm = clamp(pos.HeightKm+step, MinHeightKm, MaxHeightKm)
		span = hi.HeightKm - lo.HeightKm
	case model.DimensionTime:
		step = GradientStepTimeYrs
		yearLo = year - step
		yearHi = year + step
		span = 2 * step
	default:
		return model.GradientResult{}, fmt.Errorf("unknown gradient dimension %d", dim)
	}

	below, err := evaluateAtYear(set, lo, yearLo)
	if err != nil {
		return model.GradientResult{}, err
	}
	above, err := evaluateAtYear(set, hi, yearHi)
	if err != nil {
		return model.GradientResult{}, err
	}

	return model.GradientResult{
		Dimension: dim,
		Step:      step,

		North:          (above.North - below.North) / span,
		East:           (above.East - below.East) / span,
		Down:           (above.Down - below.Down) / span,
		Horizontal:     (above.Horizontal - below.Horizontal) / span,
		Total:          (above.Total - below.Total) / span,
		DeclinationDeg: (above.DeclinationDeg - below.DeclinationDeg) / span,
		InclinationDeg: (above.InclinationDeg - below.InclinationDeg) / span,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
