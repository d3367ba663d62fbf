package core

import "fmt"

// InvalidDateError is returned when a calendar date does not exist, e.g.
// February 29 of a non-leap year or a day past the end of its month.
type InvalidDateError struct {
	Year  int
	Month int
	Day   int
}

// Error returns the error message for InvalidDateError.
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid calendar date %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

// OutOfValidityRangeError is returned when the query date lies outside the
// model's validity window by more than the grace tolerance.
type OutOfValidityRangeError struct {
	Year      float64 // requested decimal year
	ValidFrom float64
	ValidTo   float64
}

// Error returns the error message for OutOfValidityRangeError.
func (e *OutOfValidityRangeError) Error() string {
	return fmt.Sprintf("decimal year %.3f outside model validity [%.1f, %.1f] (grace %.1f yr)",
		e.Year, e.ValidFrom, e.ValidTo, ValidityGraceYears)
}

// PositionOutOfRangeError is returned for positions outside the operating
// envelope the model is calibrated for. It is a domain error, not an
// arithmetic fault: the harmonic series would still converge, the result
// would just be meaningless.
type PositionOutOfRangeError struct {
	Quantity string  // "latitude" or "height"
	Value    float64 // offending value
	Min, Max float64 // supported bounds
}

// Error returns the error message for PositionOutOfRangeError.
func (e *PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %.3f outside supported range [%.1f, %.1f]", e.Quantity, e.Value, e.Min, e.Max)
}
