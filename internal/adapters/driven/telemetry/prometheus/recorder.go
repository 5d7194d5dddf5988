// Package prometheus exports pipeline telemetry and the metrics aggregate
// as Prometheus metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// Ensure Recorder implements the interface.
var _ driven.OperationRecorder = (*Recorder)(nil)

const namespace = "datacrafter"

// Recorder holds the Prometheus collectors on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	slicesTotal       *prometheus.CounterVec
	ingestedElements  prometheus.Counter
	ingestedChunks    prometheus.Counter

	pendingDocuments prometheus.Gauge
	totalDocuments   prometheus.Gauge
	errorRate        prometheus.Gauge
	documentTypes    *prometheus.GaugeVec
}

// NewRecorder creates and registers all collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{registry: reg}

	r.operationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of external operations",
		},
		[]string{"kind", "status"},
	)

	r.operationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of external operations in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	r.slicesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slices_total",
			Help:      "Total number of slice submissions",
		},
		[]string{"status"},
	)

	r.ingestedElements = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_elements_total",
		Help:      "Total number of elements ingested",
	})

	r.ingestedChunks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_chunks_total",
		Help:      "Total number of chunks ingested",
	})

	// Aggregate gauges mirror the durable metrics state
	r.pendingDocuments = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_documents",
		Help:      "Documents currently being processed",
	})

	r.totalDocuments = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "documents",
		Help:      "Documents recorded in the aggregate",
	})

	r.errorRate = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "error_rate_percent",
		Help:      "Failed operations as a percentage of all operations",
	})

	r.documentTypes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_by_type",
			Help:      "Documents recorded per document type",
		},
		[]string{"type"},
	)

	return r
}

// RecordOperation records the outcome of one external operation.
func (r *Recorder) RecordOperation(kind string, success bool, elapsed time.Duration) {
	r.operationsTotal.WithLabelValues(kind, status(success)).Inc()
	r.operationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordSlice records the outcome of one slice submission.
func (r *Recorder) RecordSlice(success bool) {
	r.slicesTotal.WithLabelValues(status(success)).Inc()
}

// RecordIngest records the size of an ingested analysis.
func (r *Recorder) RecordIngest(elements, chunks int) {
	r.ingestedElements.Add(float64(elements))
	r.ingestedChunks.Add(float64(chunks))
}

// Observe copies the aggregate into the gauges.
func (r *Recorder) Observe(agg domain.MetricsAggregate) {
	r.pendingDocuments.Set(float64(agg.Metrics.PendingDocuments))
	r.totalDocuments.Set(float64(agg.Metrics.TotalDocuments))
	r.errorRate.Set(agg.Metrics.ErrorRate)
	for t, n := range agg.Analytics.DocumentTypes {
		r.documentTypes.WithLabelValues(t).Set(float64(n))
	}
}

// Watch returns a listener that refreshes the gauges whenever the metrics
// key is written. Subscribe it to the persistence gateway.
func (r *Recorder) Watch(metrics driving.MetricsService) driving.Listener {
	w := &watcher{recorder: r, metrics: metrics}
	r.Observe(metrics.Load())
	return w
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

type watcher struct {
	recorder *Recorder
	metrics  driving.MetricsService
}

func (w *watcher) OnChange(key string) {
	if key != driving.MetricsKey {
		return
	}
	w.recorder.Observe(w.metrics.Load())
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
