// Package metrics holds the Prometheus collectors for module cloning.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons reported on CloneFailures.
const (
	ReasonStructuralMismatch = "structural_mismatch"
	ReasonTypeMismatch       = "type_mismatch"
	ReasonCopy               = "copy"
	ReasonOther              = "other"
)

var (
	// Clones counts completed Clone calls per root module type. Children
	// cloned as part of a tree are not counted separately.
	Clones = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "born_nn_clones_total",
			Help: "Number of successful module tree clones, per root module type.",
		},
		[]string{"module"},
	)
	// CloneFailures counts failed Clone calls per root module type and reason.
	CloneFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "born_nn_clone_failures_total",
			Help: "Number of failed module tree clones, per root module type and reason.",
		},
		[]string{"module", "reason"},
	)
	// CopiedBytes counts parameter and buffer bytes copied into cloned trees.
	CopiedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "born_nn_clone_copied_bytes_total",
			Help: "Number of tensor bytes copied into cloned modules.",
		},
	)
	// CloneDuration observes Clone latency per module type, children included.
	CloneDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "born_nn_clone_duration_seconds",
			Help:    "Time spent cloning a module tree, per root module type.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module"},
	)

	collectors = []prometheus.Collector{
		Clones,
		CloneFailures,
		CopiedBytes,
		CloneDuration,
	}

	registerOnce sync.Once
)

// Register registers the clone collectors with reg once per process.
// Subsequent calls are no-ops and return nil.
func Register(reg prometheus.Registerer) error {
	var err error
	registerOnce.Do(func() {
		for _, c := range collectors {
			if err = reg.Register(c); err != nil {
				return
			}
		}
	})
	return err
}

// ObserveClone records the outcome of a single Clone call.
func ObserveClone(module string, took time.Duration, copied int64, reason string) {
	CloneDuration.WithLabelValues(module).Observe(took.Seconds())
	if reason != "" {
		CloneFailures.WithLabelValues(module, reason).Inc()
		return
	}
	Clones.WithLabelValues(module).Inc()
	CopiedBytes.Add(float64(copied))
}
