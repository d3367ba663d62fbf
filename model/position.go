package model

import (
	"fmt"
	"time"
)

// GeodeticPosition is a point relative to the WGS-84 reference ellipsoid.
type GeodeticPosition struct {
	LatitudeDeg  float64 // degrees, north positive, [-90, 90]
	LongitudeDeg float64 // degrees, east positive
	HeightKm     float64 // kilometres above the ellipsoid
}

// SphericalPosition is the geocentric view of a GeodeticPosition, plus the
// sin/cos of the geodetic-minus-geocentric latitude delta needed to rotate
// field components back into the geodetic frame.
type SphericalPosition struct {
	RadiusKm     float64 // geocentric radius
	LatitudeDeg  float64 // geocentric (spherical) latitude, degrees
	LongitudeDeg float64 // unchanged from the geodetic position

	// Rotation terms: delta = geocentric latitude - geodetic latitude.
	SinDelta float64
	CosDelta float64
}

// Date is a calendar date. It deliberately carries no time-of-day or zone:
// the field model's time resolution is the decimal year.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time to its UTC calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as ISO-8601 (YYYY-MM-DD).
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Dimension selects the input axis a gradient is taken along.
type Dimension int

const (
	DimensionLatitude Dimension = iota
	DimensionLongitude
	DimensionHeight
	DimensionTime
)

// String returns the lower-case name used in APIs and logs.
func (d Dimension) String() string {
	switch d {
	case DimensionLatitude:
		return "latitude"
	case DimensionLongitude:
		return "longitude"
	case DimensionHeight:
		return "height"
	case DimensionTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseDimension maps an API string onto a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "latitude", "lat":
		return DimensionLatitude, nil
	case "longitude", "lon":
		return DimensionLongitude, nil
	case "height", "alt":
		return DimensionHeight, nil
	case "time":
		return DimensionTime, nil
	default:
		return 0, fmt.Errorf("unknown gradient dimension %q", s)
	}
}
