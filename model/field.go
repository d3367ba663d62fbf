package model

// FieldResult is the magnetic field at one position and date: the vector in
// the local geodetic North-East-Down frame, the derived scalar elements, and
// the predicted annual rate of change of each. All field magnitudes are in
// the model's native intensity unit (nanoteslas for the standard models);
// angles are in degrees.
type FieldResult struct {
	North float64
	East  float64
	Down  float64

	Horizontal     float64
	Total          float64
	DeclinationDeg float64
	InclinationDeg float64

	// Secular variation: predicted change per year of each quantity above,
	// derived from the model's coefficient rates.
	NorthRate          float64
	EastRate           float64
	DownRate           float64
	HorizontalRate     float64
	TotalRate          float64
	DeclinationRateDeg float64
	InclinationRateDeg float64

	// Degenerate is set when the horizontal intensity is below the dip-pole
	// threshold, making declination (and its rate) ill-defined. Declination
	// quantities are reported as 0 in that case, never NaN.
	Degenerate bool
}

// GradientResult holds central finite-difference estimates of the partial
// derivatives of each FieldResult scalar along one input dimension. Units are
// the quantity's unit per degree (latitude/longitude), per kilometre
// (height), or per year (time).
type GradientResult struct {
	Dimension Dimension
	Step      float64 // half-width of the symmetric offset, in the dimension's unit

	North          float64
	East           float64
	Down           float64
	Horizontal     float64
	Total          float64
	DeclinationDeg float64
	InclinationDeg float64
}
