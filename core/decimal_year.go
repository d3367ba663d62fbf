package core

import (
	"time"

	"github.com/signalsfoundry/geomag-engine/model"
)

// DecimalYear converts a calendar date to the fractional-year time scale the
// coefficient models extrapolate on:
//
//	decimalYear = year + (dayOfYear - 1) / daysInYear
//
// so January 1 maps exactly onto the integer year. Leap years divide by 366.
// A date that does not exist on the calendar returns InvalidDateError.
func DecimalYear(d model.Date) (float64, error) {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return 0, &InvalidDateError{Year: d.Year, Month: int(d.Month), Day: d.Day}
	}

	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2), so a
	// round-trip mismatch is the existence check.
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	y, m, day := t.Date()
	if y != d.Year || m != d.Month || day != d.Day {
		return 0, &InvalidDateError{Year: d.Year, Month: int(d.Month), Day: d.Day}
	}

	days := 365.0
	if isLeapYear(d.Year) {
		days = 366.0
	}
	return float64(d.Year) + float64(t.YearDay()-1)/days, nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
