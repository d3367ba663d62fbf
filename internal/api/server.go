// Package api exposes the field-evaluation engine over HTTP: JSON query
// endpoints plus health and Prometheus metrics. It owns no model state; the
// active coefficient set comes from the store on every request so reloads
// take effect without restarting.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/geomag-engine/internal/logging"
	"github.com/signalsfoundry/geomag-engine/internal/observability"
	"github.com/signalsfoundry/geomag-engine/store"
)

const tracerName = "github.com/signalsfoundry/geomag-engine/internal/api"

// Server wires the query handlers, store, logger, and metrics together.
type Server struct {
	store   *store.ModelStore
	log     logging.Logger
	metrics *observability.QueryCollector
	tracer  trace.Tracer
}

// NewServer constructs a Server. The logger and collector may be nil.
func NewServer(st *store.ModelStore, log logging.Logger, metrics *observability.QueryCollector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{
		store:   st,
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// Router returns the full HTTP surface of the service.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/model", s.handleModelInfo)
		r.Post("/field", s.handleField)
		r.Post("/gradient", s.handleGradient)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// observe records metrics for a finished query.
func (s *Server) observe(op, outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveQuery(op, outcome, time.Since(start).Seconds())
	}
}

func spanAttrs(lat, lon, height float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("geomag.latitude_deg", lat),
		attribute.Float64("geomag.longitude_deg", lon),
		attribute.Float64("geomag.height_km", height),
	}
}
