package core

import (
	"math"

	"github.com/signalsfoundry/geomag-engine/model"
)

// DegenerateHorizontalNT is the horizontal-intensity threshold (in the
// model's intensity unit) below which declination has no meaning: the field
// points essentially straight up or down, as it does at the dip poles.
// Results below it carry the Degenerate flag with declination quantities
// reported as 0.
const DegenerateHorizontalNT = 1e-4

// sphericalField is a field vector in the geocentric frame: X toward
// geographic north along the meridian, Y east, Z toward the geocenter.
type sphericalField struct {
	X, Y, Z float64
}

// Evaluate sums the harmonic series for the extrapolated coefficients at one
// spherical position and derives the full FieldResult: geodetic NED
// components, scalar elements, and the predicted annual rates from the
// coefficients' secular terms.
func Evaluate(ec *Extrapolated, sph model.SphericalPosition, lt *LegendreTable) model.FieldResult {
	main := sumHarmonics(ec.G, ec.H, ec.MaxDegree, sph, lt)
	north, east, down := rotateToGeodetic(main, sph)
	northRate, eastRate, downRate := SecularVariation(ec, sph, lt)

	return deriveElements(north, east, down, northRate, eastRate, downRate)
}

// EvaluateField runs the whole pipeline for one query: decimal year,
// coefficient extrapolation, coordinate conversion, Legendre generation, and
// harmonic summation. This is the primary entry point for callers.
func EvaluateField(set *model.CoefficientSet, pos model.GeodeticPosition, date model.Date) (model.FieldResult, error) {
	year, err := DecimalYear(date)
	if err != nil {
		return model.FieldResult{}, err
	}
	return evaluateAtYear(set, pos, year)
}

func evaluateAtYear(set *model.CoefficientSet, pos model.GeodeticPosition, decimalYear float64) (model.FieldResult, error) {
	ec, err := Extrapolate(set, decimalYear)
	if err != nil {
		return model.FieldResult{}, err
	}
	sph, err := GeodeticToSpherical(pos)
	if err != nil {
		return model.FieldResult{}, err
	}
	lat := sph.LatitudeDeg * deg2rad
	lt, err := NewLegendreTable(set.MaxDegree(), math.Sin(lat), math.Cos(lat))
	if err != nil {
		return model.FieldResult{}, err
	}
	return Evaluate(ec, sph, lt), nil
}

// sumHarmonics accumulates the spherical field components for one pair of
// coefficient tables (main field or secular rates). Each degree contributes
// with weight (a/r)^(n+2); the east component divides by cos(latitude) and
// switches to the limiting recurrence when the query sits on a geographic
// pole.
func sumHarmonics(g, h [][]float64, maxDegree int, sph model.SphericalPosition, lt *LegendreTable) sphericalField {
	lat := sph.LatitudeDeg * deg2rad
	lon := sph.LongitudeDeg * deg2rad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// sin(m*lon), cos(m*lon) for every order, built once.
	sinM := make([]float64, maxDegree+1)
	cosM := make([]float64, maxDegree+1)
	for m := 0; m <= maxDegree; m++ {
		sinM[m] = math.Sin(float64(m) * lon)
		cosM[m] = math.Cos(float64(m) * lon)
	}

	ratio := GeomagneticRadiusKm / sph.RadiusKm
	atPole := math.Abs(cosLat) < PoleCosineThreshold

	var f sphericalField
	power := ratio * ratio // (a/r)^(n+2) starts at n=1 -> ratio^3
	for n := 1; n <= maxDegree; n++ {
		power *= ratio
		for m := 0; m <= n; m++ {
			angular := g[n][m]*cosM[m] + h[n][m]*sinM[m]

			f.X -= power * angular * lt.Derivative(n, m)
			f.Z -= power * float64(n+1) * angular * lt.Value(n, m)

			if !atPole && m > 0 {
				f.Y += power * float64(m) * (g[n][m]*sinM[m] - h[n][m]*cosM[m]) * lt.Value(n, m) / cosLat
			}
		}
	}

	if atPole {
		f.Y = poleEastComponent(g, h, maxDegree, sinLat, sinM[1], cosM[1], ratio)
	}
	return f
}

// poleEastComponent evaluates the azimuthal sum at |latitude| = 90 using the
// limit of P(n,1)/cos(latitude), which stays finite where the direct
// quotient does not. Only order-1 terms survive the limit.
func poleEastComponent(g, h [][]float64, maxDegree int, sinLat, sinLon, cosLon, ratio float64) float64 {
	// pOver[n] tracks the scaled limit table; sn accumulates the Schmidt
	// factors for (n,1).
	pOver := make([]float64, maxDegree+1)
	pOver[0] = 1

	var east float64
	norm := 1.0
	power := ratio * ratio
	for n := 1; n <= maxDegree; n++ {
		power *= ratio

		normHere := norm * float64(2*n-1) / float64(n)
		scaled := normHere * math.Sqrt(float64(2*n)/float64(n+1))
		norm = normHere

		if n == 1 {
			pOver[n] = pOver[n-1]
		} else {
			k := float64((n-1)*(n-1)-1) / float64((2*n-1)*(2*n-3))
			pOver[n] = sinLat*pOver[n-1] - k*pOver[n-2]
		}

		east += power * (g[n][1]*sinLon - h[n][1]*cosLon) * pOver[n] * scaled
	}
	return east
}

// rotateToGeodetic turns spherical components into the local geodetic
// North-East-Down frame using the latitude delta from the ellipsoidal
// conversion. East is unaffected: the rotation is about the east axis.
func rotateToGeodetic(f sphericalField, sph model.SphericalPosition) (north, east, down float64) {
	north = f.X*sph.CosDelta - f.Z*sph.SinDelta
	east = f.Y
	down = f.X*sph.SinDelta + f.Z*sph.CosDelta
	return north, east, down
}

// deriveElements computes the scalar elements and, by the total-derivative
// chain rule, their annual rates. Near a dip pole the horizontal intensity
// collapses and declination becomes ill-defined; the result is flagged
// Degenerate with declination quantities forced to 0 instead of NaN.
func deriveElements(north, east, down, northRate, eastRate, downRate float64) model.FieldResult {
	h := math.Hypot(north, east)
	f := math.Hypot(h, down)

	r := model.FieldResult{
		North:      north,
		East:       east,
		Down:       down,
		Horizontal: h,
		Total:      f,
		NorthRate:  northRate,
		EastRate:   eastRate,
		DownRate:   downRate,

		InclinationDeg: math.Atan2(down, h) * rad2deg,
	}

	if f > 0 {
		r.TotalRate = (north*northRate + east*eastRate + down*downRate) / f
	}

	if h <= DegenerateHorizontalNT {
		r.Degenerate = true
		// Declination and its rate are reported as 0 by convention; the
		// horizontal rate degenerates along with it.
		return r
	}

	r.DeclinationDeg = math.Atan2(east, north) * rad2deg
	r.HorizontalRate = (north*northRate + east*eastRate) / h
	r.DeclinationRateDeg = (north*eastRate - east*northRate) / (h * h) * rad2deg
	if f > 0 {
		r.InclinationRateDeg = (h*downRate - down*r.HorizontalRate) / (f * f) * rad2deg
	}
	return r
}
