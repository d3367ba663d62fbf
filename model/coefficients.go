package model

import "fmt"

// Coefficient is one Schmidt quasi-normalized Gauss term of the spherical
// harmonic expansion, with its secular-variation rates.
type Coefficient struct {
	Degree int     // n >= 1
	Order  int     // m, 0 <= m <= n
	G      float64 // cosine coefficient, nT
	H      float64 // sine coefficient, nT; zero when Order == 0
	GDot   float64 // nT per year
	HDot   float64 // nT per year; zero when Order == 0
}

// CoefficientSet is an immutable, fully validated harmonic model: the Gauss
// coefficients of one published epoch plus their linear secular-variation
// rates. Construct it once (typically from a coefficient file) and share it
// freely between concurrent queries; nothing mutates it afterwards.
type CoefficientSet struct {
	name      string
	epoch     float64 // reference decimal year
	validFrom float64
	validTo   float64
	maxDegree int

	// Dense triangular (degree, order) tables. Row n has n+1 entries.
	g, h, gDot, hDot [][]float64
}

// NewCoefficientSet validates and indexes the given terms.
// Every term must satisfy order <= degree, degree >= 1, and a zero sine
// coefficient at order 0; duplicate (degree, order) pairs are rejected.
func NewCoefficientSet(name string, epoch, validFrom, validTo float64, terms []Coefficient) (*CoefficientSet, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("coefficient set %q has no terms", name)
	}
	if validTo < validFrom {
		return nil, fmt.Errorf("coefficient set %q: validTo %.1f precedes validFrom %.1f", name, validTo, validFrom)
	}

	maxDegree := 0
	for _, c := range terms {
		if c.Degree > maxDegree {
			maxDegree = c.Degree
		}
	}

	s := &CoefficientSet{
		name:      name,
		epoch:     epoch,
		validFrom: validFrom,
		validTo:   validTo,
		maxDegree: maxDegree,
		g:         newTriangular(maxDegree),
		h:         newTriangular(maxDegree),
		gDot:      newTriangular(maxDegree),
		hDot:      newTriangular(maxDegree),
	}

	seen := make(map[[2]int]bool, len(terms))
	for _, c := range terms {
		if c.Degree < 1 {
			return nil, fmt.Errorf("coefficient set %q: degree %d < 1", name, c.Degree)
		}
		if c.Order < 0 || c.Order > c.Degree {
			return nil, fmt.Errorf("coefficient set %q: order %d out of range for degree %d", name, c.Order, c.Degree)
		}
		if c.Order == 0 && (c.H != 0 || c.HDot != 0) {
			return nil, fmt.Errorf("coefficient set %q: non-zero sine term at degree %d order 0", name, c.Degree)
		}
		key := [2]int{c.Degree, c.Order}
		if seen[key] {
			return nil, fmt.Errorf("coefficient set %q: duplicate term (%d,%d)", name, c.Degree, c.Order)
		}
		seen[key] = true

		s.g[c.Degree][c.Order] = c.G
		s.h[c.Degree][c.Order] = c.H
		s.gDot[c.Degree][c.Order] = c.GDot
		s.hDot[c.Degree][c.Order] = c.HDot
	}

	return s, nil
}

// Name returns the model identifier from the source header, e.g. "WMM-2020".
func (s *CoefficientSet) Name() string { return s.name }

// Epoch returns the reference decimal year secular variation is measured from.
func (s *CoefficientSet) Epoch() float64 { return s.epoch }

// ValidFrom returns the start of the validity window in decimal years.
func (s *CoefficientSet) ValidFrom() float64 { return s.validFrom }

// ValidTo returns the end of the validity window in decimal years.
func (s *CoefficientSet) ValidTo() float64 { return s.validTo }

// MaxDegree returns the highest harmonic degree present in the set.
func (s *CoefficientSet) MaxDegree() int { return s.maxDegree }

// MainField returns the g and h coefficients for (degree, order) at the epoch.
func (s *CoefficientSet) MainField(degree, order int) (g, h float64) {
	return s.g[degree][order], s.h[degree][order]
}

// SecularRate returns the per-year rates for (degree, order).
func (s *CoefficientSet) SecularRate(degree, order int) (gDot, hDot float64) {
	return s.gDot[degree][order], s.hDot[degree][order]
}

// TermCount returns the number of (degree, order) slots in the set.
func (s *CoefficientSet) TermCount() int {
	return s.maxDegree * (s.maxDegree + 3) / 2
}

func newTriangular(maxDegree int) [][]float64 {
	t := make([][]float64, maxDegree+1)
	for n := range t {
		t[n] = make([]float64, n+1)
	}
	return t
}
