package cvs

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the collectors with registerer. Collectors that are
// already registered there are reused.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	operations, err := register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cvs",
		Name:      "operations_total",
		Help:      "Number of executed CVS operations by kind and result.",
	}, []string{"kind", "result"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cvs",
		Name:      "operation_duration_seconds",
		Help:      "Duration of CVS operations.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), //nolint:mnd //50ms to ~100s
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		operations: operations,
		duration:   duration,
	}, nil
}

func register[T prometheus.Collector](registerer prometheus.Registerer, c T) (T, error) {
	err := registerer.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("failed to register metrics: %w", err)
}

func (m *Metrics) observe(kind Kind, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(string(kind), string(outcome.State())).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}
