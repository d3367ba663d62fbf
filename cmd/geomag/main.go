// Command geomag evaluates a geomagnetic coefficient model at one position
// and date and prints a plain-text report: the classic survey/navigation
// workflow. It can also sample the field along a TLE-propagated orbit, or
// run a self-check of the evaluation pipeline against closed-form dipole
// values.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/signalsfoundry/geomag-engine/core"
	"github.com/signalsfoundry/geomag-engine/model"
)

func main() {
	cofPath := flag.String("cof", "", "Path to a coefficient (.cof) file")
	lat := flag.Float64("lat", 0, "Geodetic latitude, degrees north")
	lon := flag.Float64("lon", 0, "Longitude, degrees east")
	height := flag.Float64("height", 0, "Height above the WGS-84 ellipsoid, kilometres")
	dateStr := flag.String("date", "", "Query date, YYYY-MM-DD (defaults to today)")
	gradientDim := flag.String("gradient", "", "Also print the gradient along: latitude | longitude | height | time")
	tle1 := flag.String("tle1", "", "TLE line 1: sample the field along this orbit instead")
	tle2 := flag.String("tle2", "", "TLE line 2")
	orbitSamples := flag.Int("orbit-samples", 16, "Number of orbit samples")
	orbitStep := flag.Duration("orbit-step", 6*time.Minute, "Time between orbit samples")
	selfCheck := flag.Bool("selfcheck", false, "Run the built-in pipeline self-check and exit")
	flag.Parse()

	if *selfCheck {
		if err := runSelfCheck(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "self-check FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("self-check PASSED")
		return
	}

	if *cofPath == "" {
		fmt.Fprintln(os.Stderr, "geomag: -cof is required (or use -selfcheck)")
		os.Exit(2)
	}

	set, err := loadModelFile(*cofPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geomag: load model: %v\n", err)
		os.Exit(1)
	}

	date := model.DateOf(time.Now())
	if *dateStr != "" {
		t, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "geomag: parse -date %q: expected YYYY-MM-DD\n", *dateStr)
			os.Exit(2)
		}
		date = model.DateOf(t)
	}

	if *tle1 != "" || *tle2 != "" {
		if err := runOrbitTrack(set, *tle1, *tle2, *orbitSamples, *orbitStep); err != nil {
			fmt.Fprintf(os.Stderr, "geomag: %v\n", err)
			os.Exit(1)
		}
		return
	}

	pos := model.GeodeticPosition{LatitudeDeg: *lat, LongitudeDeg: *lon, HeightKm: *height}
	result, err := core.EvaluateField(set, pos, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geomag: %v\n", err)
		os.Exit(1)
	}

	printReport(set, pos, date, result)

	if *gradientDim != "" {
		dim, err := model.ParseDimension(*gradientDim)
		if err != nil {
			fmt.Fprintf(os.Stderr, "geomag: %v\n", err)
			os.Exit(2)
		}
		grad, err := core.Gradient(set, pos, date, dim)
		if err != nil {
			fmt.Fprintf(os.Stderr, "geomag: %v\n", err)
			os.Exit(1)
		}
		printGradient(grad)
	}
}

func loadModelFile(path string) (*model.CoefficientSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadCoefficientSet(f)
}

func printReport(set *model.CoefficientSet, pos model.GeodeticPosition, date model.Date, r model.FieldResult) {
	fmt.Printf("Model: %s (epoch %.1f, valid %.1f-%.1f)\n", set.Name(), set.Epoch(), set.ValidFrom(), set.ValidTo())
	fmt.Printf("Position: %.4f N, %.4f E, %.2f km   Date: %s\n\n", pos.LatitudeDeg, pos.LongitudeDeg, pos.HeightKm, date)

	fmt.Printf("%-16s %12s %14s\n", "", "value", "change/yr")
	fmt.Printf("%-16s %10.1f nT %12.1f nT\n", "North (X)", r.North, r.NorthRate)
	fmt.Printf("%-16s %10.1f nT %12.1f nT\n", "East (Y)", r.East, r.EastRate)
	fmt.Printf("%-16s %10.1f nT %12.1f nT\n", "Down (Z)", r.Down, r.DownRate)
	fmt.Printf("%-16s %10.1f nT %12.1f nT\n", "Horizontal (H)", r.Horizontal, r.HorizontalRate)
	fmt.Printf("%-16s %10.1f nT %12.1f nT\n", "Total (F)", r.Total, r.TotalRate)
	if r.Degenerate {
		fmt.Printf("%-16s %12s\n", "Declination (D)", "undefined (dip pole)")
	} else {
		fmt.Printf("%-16s %10.3f°  %12.3f°\n", "Declination (D)", r.DeclinationDeg, r.DeclinationRateDeg)
	}
	fmt.Printf("%-16s %10.3f°  %12.3f°\n", "Inclination (I)", r.InclinationDeg, r.InclinationRateDeg)
}

func printGradient(g model.GradientResult) {
	unit := map[model.Dimension]string{
		model.DimensionLatitude:  "per degree",
		model.DimensionLongitude: "per degree",
		model.DimensionHeight:    "per km",
		model.DimensionTime:      "per year",
	}[g.Dimension]

	fmt.Printf("\nGradient along %s (%s, step %g):\n", g.Dimension, unit, g.Step)
	fmt.Printf("  dX %.3f  dY %.3f  dZ %.3f  dH %.3f  dF %.3f  dD %.5f  dI %.5f\n",
		g.North, g.East, g.Down, g.Horizontal, g.Total, g.DeclinationDeg, g.InclinationDeg)
}

func runOrbitTrack(set *model.CoefficientSet, tle1, tle2 string, samples int, step time.Duration) error {
	if tle1 == "" || tle2 == "" {
		return fmt.Errorf("both -tle1 and -tle2 are required for orbit sampling")
	}
	track, err := core.FieldAlongOrbit(set, tle1, tle2, time.Now().UTC(), step, samples)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %9s %9s %8s %10s %10s %9s\n", "time (UTC)", "lat", "lon", "alt km", "F nT", "H nT", "D deg")
	for _, s := range track {
		decl := fmt.Sprintf("%9.3f", s.Field.DeclinationDeg)
		if s.Field.Degenerate {
			decl = "      ---"
		}
		fmt.Printf("%-20s %9.3f %9.3f %8.1f %10.1f %10.1f %s\n",
			s.Time.Format("2006-01-02 15:04:05"),
			s.Position.LatitudeDeg, s.Position.LongitudeDeg, s.Position.HeightKm,
			s.Field.Total, s.Field.Horizontal, decl)
	}
	return nil
}

// runSelfCheck drives the full pipeline with a pure dipole model, where every
// field component has a closed form, and fails on any disagreement beyond a
// tight tolerance. It exercises the same code path as a real model without
// depending on an external coefficient file.
func runSelfCheck(w io.Writer) error {
	const (
		g10 = -29404.5
		g11 = -1450.7
		h11 = 4652.9
	)
	set, err := model.NewCoefficientSet("DIPOLE-CHECK", 2020.0, 2020.0, 2025.0, []model.Coefficient{
		{Degree: 1, Order: 0, G: g10},
		{Degree: 1, Order: 1, G: g11, H: h11},
	})
	if err != nil {
		return err
	}

	date := model.Date{Year: 2020, Month: time.July, Day: 1}
	positions := []model.GeodeticPosition{
		{LatitudeDeg: 40, LongitudeDeg: -105, HeightKm: 0},
		{LatitudeDeg: -35.5, LongitudeDeg: 18.3, HeightKm: 100},
		{LatitudeDeg: 0, LongitudeDeg: 0, HeightKm: 0},
		{LatitudeDeg: 89.9, LongitudeDeg: 45, HeightKm: 0},
	}

	const tol = 1e-6
	for _, pos := range positions {
		got, err := core.EvaluateField(set, pos, date)
		if err != nil {
			return fmt.Errorf("evaluate at %+v: %w", pos, err)
		}

		north, east, down, err := dipoleField(g10, g11, h11, pos)
		if err != nil {
			return err
		}

		if math.Abs(got.North-north) > tol || math.Abs(got.East-east) > tol || math.Abs(got.Down-down) > tol {
			return fmt.Errorf("at %+v: got (%.6f, %.6f, %.6f), dipole closed form (%.6f, %.6f, %.6f)",
				pos, got.North, got.East, got.Down, north, east, down)
		}
		fmt.Fprintf(w, "ok   %8.3f N %9.3f E: F=%.1f nT D=%.3f° I=%.3f°\n",
			pos.LatitudeDeg, pos.LongitudeDeg, got.Total, got.DeclinationDeg, got.InclinationDeg)
	}
	return nil
}

// dipoleField is the closed-form degree-1 field in geodetic NED, evaluated
// through the same ellipsoidal conversion as the engine.
func dipoleField(g10, g11, h11 float64, pos model.GeodeticPosition) (north, east, down float64, err error) {
	sph, err := core.GeodeticToSpherical(pos)
	if err != nil {
		return 0, 0, 0, err
	}

	lat := sph.LatitudeDeg * math.Pi / 180
	lon := sph.LongitudeDeg * math.Pi / 180
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	cube := math.Pow(core.GeomagneticRadiusKm/sph.RadiusKm, 3)

	lonTerm := g11*math.Cos(lon) + h11*math.Sin(lon)
	x := cube * (-g10*cosLat + lonTerm*sinLat)
	y := cube * (g11*math.Sin(lon) - h11*math.Cos(lon))
	z := -2 * cube * (g10*sinLat + lonTerm*cosLat)

	north = x*sph.CosDelta - z*sph.SinDelta
	east = y
	down = x*sph.SinDelta + z*sph.CosDelta
	return north, east, down, nil
}
