package core

import "github.com/signalsfoundry/geomag-engine/model"

// SecularVariation sums the coefficient rate terms directly into the annual
// rate of change of the geodetic North, East, and Down components. This is
// the authoritative predicted-annual-change output; rates of the derived
// scalars follow from the chain rule inside Evaluate. It is distinct from
// the finite-difference time gradient, which probes the same quantity
// numerically.
func SecularVariation(ec *Extrapolated, sph model.SphericalPosition, lt *LegendreTable) (northRate, eastRate, downRate float64) {
	f := sumHarmonics(ec.GDot, ec.HDot, ec.MaxDegree, sph, lt)
	return rotateToGeodetic(f, sph)
}
