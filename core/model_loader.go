package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signalsfoundry/geomag-engine/model"
)

// validityWindowYears is how long a published main-field model is valid past
// its epoch. The standard models are released on a five-year cycle.
const validityWindowYears = 5.0

// LoadCoefficientSet parses the standard coefficient text format: a header
// line with the model epoch, name, and release date, then one row per
// harmonic term,
//
//	n  m  g  h  gDot  hDot
//
// terminated by a row of nines. The validity window is [epoch, epoch+5].
// The reader is consumed; the caller owns closing any underlying file.
func LoadCoefficientSet(r io.Reader) (*model.CoefficientSet, error) {
	scanner := bufio.NewScanner(r)

	var (
		epoch float64
		name  string
		terms []model.Coefficient
	)

	headerSeen := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// End-of-table sentinel row.
		if strings.HasPrefix(line, "9999") {
			break
		}

		fields := strings.Fields(line)
		if !headerSeen {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: malformed header %q", lineNo, line)
			}
			e, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad epoch %q: %w", lineNo, fields[0], err)
			}
			epoch = e
			name = fields[1]
			headerSeen = true
			continue
		}

		if len(fields) < 6 {
			return nil, fmt.Errorf("line %d: expected 6 columns, got %d", lineNo, len(fields))
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad degree %q: %w", lineNo, fields[0], err)
		}
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad order %q: %w", lineNo, fields[1], err)
		}
		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(fields[2+i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad coefficient %q: %w", lineNo, fields[2+i], err)
			}
			vals[i] = v
		}
		terms = append(terms, model.Coefficient{
			Degree: n,
			Order:  m,
			G:      vals[0],
			H:      vals[1],
			GDot:   vals[2],
			HDot:   vals[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read coefficient table: %w", err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("coefficient table has no header")
	}

	return model.NewCoefficientSet(name, epoch, epoch, epoch+validityWindowYears, terms)
}
