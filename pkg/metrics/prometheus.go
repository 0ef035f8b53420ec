package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	queriesTotal  *prometheus.CounterVec
	rowsReturned  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// New creates a recorder registered on reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		queriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockaccess_queries_total",
				Help: "Total number of store queries issued",
			},
			[]string{"operation", "mode"},
		),
		rowsReturned: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockaccess_rows_returned_total",
				Help: "Total number of documents returned by the store",
			},
			[]string{"operation"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockaccess_errors_total",
				Help: "Total number of failed operations by error kind",
			},
			[]string{"operation", "kind"},
		),
		queryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockaccess_query_duration_seconds",
				Help:    "Duration of store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordQuery counts an issued query.
func (r *Recorder) RecordQuery(op, mode string) {
	r.queriesTotal.WithLabelValues(op, mode).Inc()
}

// RecordRows adds returned documents.
func (r *Recorder) RecordRows(op string, n int) {
	r.rowsReturned.WithLabelValues(op).Add(float64(n))
}

// RecordError records a failed operation.
func (r *Recorder) RecordError(op, kind string) {
	r.errorsTotal.WithLabelValues(op, kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.queryDuration.WithLabelValues(op).Observe(seconds)
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordQuery(string, string)    {}
func (Noop) RecordRows(string, int)        {}
func (Noop) RecordError(string, string)    {}
func (Noop) RecordLatency(string, float64) {}
