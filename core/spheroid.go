package core

import (
	"math"

	"github.com/signalsfoundry/geomag-engine/model"
)

// Reference ellipsoid and geomagnetic constants
const (
	// WGS-84 ellipsoid
	semiMajorAxisKm = 6378.137
	flattening      = 1.0 / 298.257223563

	// GeomagneticRadiusKm is the reference sphere radius the harmonic
	// expansion is published against. It is not the ellipsoid semi-major
	// axis; the standard models use the mean geomagnetic radius.
	GeomagneticRadiusKm = 6371.2

	// Operating envelope for query heights, kilometres above the ellipsoid.
	// The standard models are calibrated from slightly below the surface up
	// through low Earth orbit.
	MinHeightKm = -1.0
	MaxHeightKm = 850.0

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// GeodeticToSpherical converts a geodetic position to geocentric spherical
// coordinates using the closed-form ellipsoidal conversion, and records the
// sin/cos of the latitude delta used later to rotate field components back
// into the geodetic frame. Longitude passes through unchanged (normalized to
// [-180, 180)).
//
// Latitude outside [-90, 90] or height outside [MinHeightKm, MaxHeightKm]
// returns PositionOutOfRangeError.
func GeodeticToSpherical(pos model.GeodeticPosition) (model.SphericalPosition, error) {
	if pos.LatitudeDeg < -90 || pos.LatitudeDeg > 90 {
		return model.SphericalPosition{}, &PositionOutOfRangeError{
			Quantity: "latitude", Value: pos.LatitudeDeg, Min: -90, Max: 90,
		}
	}
	if pos.HeightKm < MinHeightKm || pos.HeightKm > MaxHeightKm {
		return model.SphericalPosition{}, &PositionOutOfRangeError{
			Quantity: "height", Value: pos.HeightKm, Min: MinHeightKm, Max: MaxHeightKm,
		}
	}

	lat := pos.LatitudeDeg * deg2rad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	e2 := flattening * (2 - flattening)
	rc := semiMajorAxisKm / math.Sqrt(1-e2*sinLat*sinLat)

	// Cylindrical components of the geocentric radius vector.
	p := (rc + pos.HeightKm) * cosLat
	z := (rc*(1-e2) + pos.HeightKm) * sinLat

	r := math.Sqrt(p*p + z*z)
	geocentricLat := math.Asin(z / r)

	delta := geocentricLat - lat
	return model.SphericalPosition{
		RadiusKm:     r,
		LatitudeDeg:  geocentricLat * rad2deg,
		LongitudeDeg: NormalizeLongitude(pos.LongitudeDeg),
		SinDelta:     math.Sin(delta),
		CosDelta:     math.Cos(delta),
	}, nil
}

// NormalizeLongitude wraps a longitude in degrees into [-180, 180).
func NormalizeLongitude(lonDeg float64) float64 {
	lon := math.Mod(lonDeg+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
