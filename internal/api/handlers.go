package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/signalsfoundry/geomag-engine/core"
	"github.com/signalsfoundry/geomag-engine/internal/logging"
	"github.com/signalsfoundry/geomag-engine/model"
)

// fieldRequest is the JSON body for /v1/field and /v1/gradient. Units follow
// the engine contract: degrees, kilometres above the ellipsoid, ISO dates.
type fieldRequest struct {
	LatitudeDeg  float64 `json:"latitude"`
	LongitudeDeg float64 `json:"longitude"`
	HeightKm     float64 `json:"height_km"`
	Date         string  `json:"date"`      // YYYY-MM-DD
	Dimension    string  `json:"dimension"` // gradient only
}

type fieldResponse struct {
	North          float64 `json:"north_nt"`
	East           float64 `json:"east_nt"`
	Down           float64 `json:"down_nt"`
	Horizontal     float64 `json:"horizontal_nt"`
	Total          float64 `json:"total_nt"`
	DeclinationDeg float64 `json:"declination_deg"`
	InclinationDeg float64 `json:"inclination_deg"`

	NorthRate          float64 `json:"north_rate_nt_yr"`
	EastRate           float64 `json:"east_rate_nt_yr"`
	DownRate           float64 `json:"down_rate_nt_yr"`
	HorizontalRate     float64 `json:"horizontal_rate_nt_yr"`
	TotalRate          float64 `json:"total_rate_nt_yr"`
	DeclinationRateDeg float64 `json:"declination_rate_deg_yr"`
	InclinationRateDeg float64 `json:"inclination_rate_deg_yr"`

	Degenerate bool   `json:"degenerate"`
	Validity   string `json:"validity"` // inside | grace
}

type gradientResponse struct {
	Dimension      string  `json:"dimension"`
	Step           float64 `json:"step"`
	North          float64 `json:"north"`
	East           float64 `json:"east"`
	Down           float64 `json:"down"`
	Horizontal     float64 `json:"horizontal"`
	Total          float64 `json:"total"`
	DeclinationDeg float64 `json:"declination"`
	InclinationDeg float64 `json:"inclination"`
}

type modelInfoResponse struct {
	Name      string  `json:"name"`
	Epoch     float64 `json:"epoch"`
	ValidFrom float64 `json:"valid_from"`
	ValidTo   float64 `json:"valid_to"`
	MaxDegree int     `json:"max_degree"`
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	set := s.store.Current()
	writeJSON(w, modelInfoResponse{
		Name:      set.Name(),
		Epoch:     set.Epoch(),
		ValidFrom: set.ValidFrom(),
		ValidTo:   set.ValidTo(),
		MaxDegree: set.MaxDegree(),
	})
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	const op = "field"
	start := time.Now()

	ctx, log := logging.WithQueryLogger(r.Context(), s.log)
	ctx, span := s.tracer.Start(ctx, "api.Field")
	defer span.End()

	req, pos, date, errCode := s.decodeQuery(w, r)
	if errCode != "" {
		s.observe(op, errCode, start)
		return
	}
	span.SetAttributes(spanAttrs(req.LatitudeDeg, req.LongitudeDeg, req.HeightKm)...)

	set := s.store.Current()
	result, err := core.EvaluateField(set, pos, date)
	if err != nil {
		code := writeError(w, err)
		log.Warn(ctx, "field query failed",
			logging.String("code", code),
			logging.String("error", err.Error()),
		)
		s.observe(op, code, start)
		return
	}

	validity := validityLabel(set, date)
	if validity == "grace" {
		log.Warn(ctx, "query date past model validity, inside grace period",
			logging.String("date", date.String()),
			logging.Float64("valid_to", set.ValidTo()),
		)
	}

	writeJSON(w, toFieldResponse(result, validity))
	s.observe(op, "ok", start)
}

func (s *Server) handleGradient(w http.ResponseWriter, r *http.Request) {
	const op = "gradient"
	start := time.Now()

	ctx, log := logging.WithQueryLogger(r.Context(), s.log)
	ctx, span := s.tracer.Start(ctx, "api.Gradient")
	defer span.End()

	req, pos, date, errCode := s.decodeQuery(w, r)
	if errCode != "" {
		s.observe(op, errCode, start)
		return
	}
	span.SetAttributes(spanAttrs(req.LatitudeDeg, req.LongitudeDeg, req.HeightKm)...)

	dim, err := model.ParseDimension(req.Dimension)
	if err != nil {
		s.observe(op, writeBadRequest(w, err.Error()), start)
		return
	}

	grad, err := core.Gradient(s.store.Current(), pos, date, dim)
	if err != nil {
		code := writeError(w, err)
		log.Warn(ctx, "gradient query failed",
			logging.String("code", code),
			logging.String("error", err.Error()),
		)
		s.observe(op, code, start)
		return
	}

	writeJSON(w, gradientResponse{
		Dimension:      grad.Dimension.String(),
		Step:           grad.Step,
		North:          grad.North,
		East:           grad.East,
		Down:           grad.Down,
		Horizontal:     grad.Horizontal,
		Total:          grad.Total,
		DeclinationDeg: grad.DeclinationDeg,
		InclinationDeg: grad.InclinationDeg,
	})
	s.observe(op, "ok", start)
}

// decodeQuery parses and validates the shared request shape. On failure it
// writes the error response and returns a non-empty outcome code.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (fieldRequest, model.GeodeticPosition, model.Date, string) {
	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, model.GeodeticPosition{}, model.Date{}, writeBadRequest(w, fmt.Sprintf("decode request: %v", err))
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return req, model.GeodeticPosition{}, model.Date{}, writeBadRequest(w, err.Error())
	}

	pos := model.GeodeticPosition{
		LatitudeDeg:  req.LatitudeDeg,
		LongitudeDeg: req.LongitudeDeg,
		HeightKm:     req.HeightKm,
	}
	return req, pos, date, ""
}

func parseDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, fmt.Errorf("date is required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return model.Date{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", s)
	}
	return model.DateOf(t), nil
}

func validityLabel(set *model.CoefficientSet, date model.Date) string {
	year, err := core.DecimalYear(date)
	if err != nil {
		return "inside"
	}
	if core.ModelValidity(set, year) == core.ValidityGrace {
		return "grace"
	}
	return "inside"
}

func toFieldResponse(r model.FieldResult, validity string) fieldResponse {
	return fieldResponse{
		North:              r.North,
		East:               r.East,
		Down:               r.Down,
		Horizontal:         r.Horizontal,
		Total:              r.Total,
		DeclinationDeg:     r.DeclinationDeg,
		InclinationDeg:     r.InclinationDeg,
		NorthRate:          r.NorthRate,
		EastRate:           r.EastRate,
		DownRate:           r.DownRate,
		HorizontalRate:     r.HorizontalRate,
		TotalRate:          r.TotalRate,
		DeclinationRateDeg: r.DeclinationRateDeg,
		InclinationRateDeg: r.InclinationRateDeg,
		Degenerate:         r.Degenerate,
		Validity:           validity,
	}
}
