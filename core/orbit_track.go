package core

import (
	"fmt"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/geomag-engine/model"
)

// OrbitSample is the field at one sub-satellite point along a propagated
// orbit.
type OrbitSample struct {
	Time     time.Time
	Position model.GeodeticPosition
	Field    model.FieldResult
}

// FieldAlongOrbit propagates a two-line element set with SGP4 and evaluates
// the field at each sub-satellite position: the magnetometer-calibration
// view of the model. Samples start at start and advance by step, count
// times. Satellites above the model's height envelope (for example GEO) are
// rejected rather than extrapolated.
func FieldAlongOrbit(set *model.CoefficientSet, tle1, tle2 string, start time.Time, step time.Duration, count int) ([]OrbitSample, error) {
	if count < 1 {
		return nil, fmt.Errorf("orbit track needs count >= 1, got %d", count)
	}
	if step <= 0 {
		return nil, fmt.Errorf("orbit track needs a positive step, got %v", step)
	}

	sat := satellite.TLEToSat(tle1, tle2, satellite.GravityWGS84)

	samples := make([]OrbitSample, 0, count)
	for i := 0; i < count; i++ {
		t := start.Add(time.Duration(i) * step).UTC()
		year, month, day := t.Date()
		hour, min, sec := t.Clock()

		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		jd := satellite.JDay(year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(jd)
		altKm, _, latLon := satellite.ECIToLLA(posECI, gmst)

		pos := model.GeodeticPosition{
			LatitudeDeg:  latLon.Latitude * rad2deg,
			LongitudeDeg: NormalizeLongitude(latLon.Longitude * rad2deg),
			HeightKm:     altKm,
		}

		field, err := EvaluateField(set, pos, model.DateOf(t))
		if err != nil {
			return nil, fmt.Errorf("sample %d at %s: %w", i, t.Format(time.RFC3339), err)
		}
		samples = append(samples, OrbitSample{Time: t, Position: pos, Field: field})
	}
	return samples, nil
}
