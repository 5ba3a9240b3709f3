package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	forecasts     *prometheus.CounterVec
	droppedRows   prometheus.Counter
	cacheResults  *prometheus.CounterVec
	storeWrites   *prometheus.CounterVec
	salesIngested *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		forecasts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_forecasts_total",
				Help: "Total number of sales forecasts computed",
			},
			[]string{"freq", "source"},
		),
		droppedRows: f.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_forecast_dropped_rows_total",
				Help: "Input rows dropped because date or sales did not parse",
			},
		),
		cacheResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_forecast_cache_total",
				Help: "Forecast cache lookups by result",
			},
			[]string{"result"},
		),
		storeWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_store_writes_total",
				Help: "Writes to record stores",
			},
			[]string{"store"},
		),
		salesIngested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_sales_ingested_total",
				Help: "Sales records accepted for ingestion",
			},
			[]string{"backend"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordForecast(freq, source string) {
	r.forecasts.WithLabelValues(freq, source).Inc()
}

func (r *Recorder) RecordDroppedRows(n int) {
	if n > 0 {
		r.droppedRows.Add(float64(n))
	}
}

func (r *Recorder) RecordCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheResults.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordStoreWrite(store string) {
	r.storeWrites.WithLabelValues(store).Inc()
}

func (r *Recorder) RecordSalesIngested(backend string, n int) {
	r.salesIngested.WithLabelValues(backend).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
