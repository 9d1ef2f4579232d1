// Package metrics collects benchmark measurements into a Prometheus
// registry and reads Go runtime memory statistics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/agbru/sumbench/internal/errors"
)

const namespace = "sumbench"

// Recorder exposes benchmark observations as Prometheus metrics. Each
// Recorder owns a private registry so that several can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	trialDuration *prometheus.HistogramVec
	trials        *prometheus.CounterVec
	lastSum       *prometheus.GaugeVec
	failures      *prometheus.CounterVec
	datasetBytes  prometheus.Gauge
	datasetLength prometheus.Gauge
	heapAlloc     prometheus.Gauge
	gcCycles      prometheus.Gauge
}

// NewRecorder creates a recorder with its metrics registered on a fresh
// registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		trialDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_duration_seconds",
			Help:      "Wall time of a single summation trial.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 24),
		}, []string{"strategy"}),
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Completed summation trials.",
		}, []string{"strategy"}),
		lastSum: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sum",
			Help:      "Sum returned by the final trial of a strategy.",
		}, []string{"strategy"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Aborted benchmark runs by strategy and kind.",
		}, []string{"strategy", "kind"}),
		datasetBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_bytes",
			Help:      "Memory held by the dataset array.",
		}),
		datasetLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_length",
			Help:      "Number of elements in the dataset.",
		}),
		heapAlloc: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Live heap bytes at the end of the run.",
		}),
		gcCycles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_cycles_during_run",
			Help:      "GC cycles completed while the benchmark ran.",
		}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveTrial records one successful trial.
func (r *Recorder) ObserveTrial(strategy string, elapsed time.Duration) {
	r.trialDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	r.trials.WithLabelValues(strategy).Inc()
}

// ObserveResult records the final sum of a strategy.
func (r *Recorder) ObserveResult(strategy string, total int64) {
	r.lastSum.WithLabelValues(strategy).Set(float64(total))
}

// ObserveFailure counts an aborted run, labelled "worker" for worker
// failures and "other" otherwise.
func (r *Recorder) ObserveFailure(strategy string, err error) {
	kind := "other"
	if apperrors.ExitCodeFor(err) == apperrors.ExitErrorWorker {
		kind = "worker"
	}
	r.failures.WithLabelValues(strategy, kind).Inc()
}

// SetDataset records the size of the benchmarked dataset.
func (r *Recorder) SetDataset(length int, bytes uint64) {
	r.datasetLength.Set(float64(length))
	r.datasetBytes.Set(float64(bytes))
}

// ObserveMemory records runtime memory state across the run.
func (r *Recorder) ObserveMemory(before, after MemorySnapshot) {
	r.heapAlloc.Set(float64(after.HeapAlloc))
	r.gcCycles.Set(float64(GCDuring(before, after)))
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return apperrors.WrapError(prometheus.WriteToTextfile(path, r.registry), "writing metrics to %s", path)
}
