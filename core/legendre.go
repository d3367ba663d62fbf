package core

import (
	"fmt"
	"math"
)

// PoleCosineThreshold is the |cos(spherical latitude)| below which the
// evaluator switches to the pole-limiting summation for the east component.
// Below this the 1/cos factor in the azimuthal term is no longer numerically
// meaningful.
const PoleCosineThreshold = 1e-10

// LegendreTable holds Schmidt quasi-normalized associated Legendre functions
// P(n,m) and their latitude derivatives dP(n,m)/dlat for one spherical
// latitude, indexed by (degree, order). The table is sized once from the
// model's maximum degree and lives for a single query.
type LegendreTable struct {
	maxDegree int
	p         [][]float64 // row n holds orders 0..n
	dp        [][]float64 // derivative with respect to geocentric latitude
}

// NewLegendreTable generates the table for sin/cos of one spherical latitude
// using the standard three-term recurrence: degree n is built from degrees
// n-1 and n-2, the diagonal from the previous diagonal. The recurrence stays
// finite at the exact poles (cosLat = 0), where the naive closed forms
// divide by zero; the remaining pole singularity (the 1/cos azimuthal
// factor) is the evaluator's job, not this table's.
func NewLegendreTable(maxDegree int, sinLat, cosLat float64) (*LegendreTable, error) {
	if maxDegree < 1 {
		return nil, fmt.Errorf("legendre table needs maxDegree >= 1, got %d", maxDegree)
	}

	t := &LegendreTable{
		maxDegree: maxDegree,
		p:         newTriangularTable(maxDegree),
		dp:        newTriangularTable(maxDegree),
	}

	x := sinLat
	z := cosLat

	// Unnormalized values first; the derivative rows are built with respect
	// to colatitude and sign-flipped during normalization.
	t.p[0][0] = 1
	t.dp[0][0] = 0

	for n := 1; n <= maxDegree; n++ {
		for m := 0; m <= n; m++ {
			switch {
			case n == m:
				t.p[n][m] = z * t.p[n-1][m-1]
				t.dp[n][m] = z*t.dp[n-1][m-1] + x*t.p[n-1][m-1]
			case n == 1 || m == n-1:
				t.p[n][m] = x * t.p[n-1][m]
				t.dp[n][m] = x*t.dp[n-1][m] - z*t.p[n-1][m]
			default:
				k := float64((n-1)*(n-1)-m*m) / float64((2*n-1)*(2*n-3))
				t.p[n][m] = x*t.p[n-1][m] - k*t.p[n-2][m]
				t.dp[n][m] = x*t.dp[n-1][m] - z*t.p[n-1][m] - k*t.dp[n-2][m]
			}
		}
	}

	// Schmidt quasi-normalization factors, built by the same two
	// recurrences the WMM reference tables use.
	norm := newTriangularTable(maxDegree)
	norm[0][0] = 1
	for n := 1; n <= maxDegree; n++ {
		norm[n][0] = norm[n-1][0] * float64(2*n-1) / float64(n)
		for m := 1; m <= n; m++ {
			f := float64(n - m + 1)
			if m == 1 {
				f *= 2
			}
			norm[n][m] = norm[n][m-1] * math.Sqrt(f/float64(n+m))
		}
	}

	for n := 1; n <= maxDegree; n++ {
		for m := 0; m <= n; m++ {
			t.p[n][m] *= norm[n][m]
			// Sign flip converts the colatitude derivative accumulated
			// above into the latitude derivative stored in the table.
			t.dp[n][m] *= -norm[n][m]
		}
	}

	return t, nil
}

// MaxDegree returns the highest degree the table was generated for.
func (t *LegendreTable) MaxDegree() int { return t.maxDegree }

// Value returns the Schmidt quasi-normalized P(n,m).
func (t *LegendreTable) Value(n, m int) float64 { return t.p[n][m] }

// Derivative returns dP(n,m)/dlat with respect to geocentric latitude.
func (t *LegendreTable) Derivative(n, m int) float64 { return t.dp[n][m] }

func newTriangularTable(maxDegree int) [][]float64 {
	t := make([][]float64, maxDegree+1)
	for n := range t {
		t[n] = make([]float64, n+1)
	}
	return t
}
