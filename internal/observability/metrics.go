package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/geomag-engine/model"
)

// QueryCollector bundles Prometheus metrics for the field-query surface and
// provides helpers to wire them into HTTP handlers.
type QueryCollector struct {
	gatherer prometheus.Gatherer

	Queries        *prometheus.CounterVec
	QueryDurations *prometheus.HistogramVec

	ModelEpoch     prometheus.Gauge
	ModelMaxDegree prometheus.Gauge
	ModelTerms     prometheus.Gauge
}

// NewQueryCollector registers query metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewQueryCollector(reg prometheus.Registerer) (*QueryCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geomag_queries_total",
		Help: "Total number of handled field queries, labeled by operation and outcome.",
	}, []string{"op", "outcome"})
	queries, err := registerCounterVec(reg, queries, "geomag_queries_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geomag_query_duration_seconds",
		Help:    "Field query latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"op"})
	durations, err = registerHistogramVec(reg, durations, "geomag_query_duration_seconds")
	if err != nil {
		return nil, err
	}

	epoch, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geomag_model_epoch",
		Help: "Reference epoch (decimal year) of the active coefficient model.",
	}), "geomag_model_epoch")
	if err != nil {
		return nil, err
	}
	maxDegree, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geomag_model_max_degree",
		Help: "Maximum harmonic degree of the active coefficient model.",
	}), "geomag_model_max_degree")
	if err != nil {
		return nil, err
	}
	terms, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geomag_model_terms",
		Help: "Number of (degree, order) terms in the active coefficient model.",
	}), "geomag_model_terms")
	if err != nil {
		return nil, err
	}

	return &QueryCollector{
		gatherer:       gatherer,
		Queries:        queries,
		QueryDurations: durations,
		ModelEpoch:     epoch,
		ModelMaxDegree: maxDegree,
		ModelTerms:     terms,
	}, nil
}

// ObserveQuery records one handled query.
func (c *QueryCollector) ObserveQuery(op, outcome string, seconds float64) {
	if c == nil {
		return
	}
	if c.Queries != nil {
		c.Queries.WithLabelValues(op, outcome).Inc()
	}
	if c.QueryDurations != nil {
		c.QueryDurations.WithLabelValues(op).Observe(seconds)
	}
}

// SetModelInfo drives the model gauges from the active coefficient set, for
// example from a store subscription on reload.
func (c *QueryCollector) SetModelInfo(set *model.CoefficientSet) {
	if c == nil || set == nil {
		return
	}
	if c.ModelEpoch != nil {
		c.ModelEpoch.Set(set.Epoch())
	}
	if c.ModelMaxDegree != nil {
		c.ModelMaxDegree.Set(float64(set.MaxDegree()))
	}
	if c.ModelTerms != nil {
		c.ModelTerms.Set(float64(set.TermCount()))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *QueryCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
