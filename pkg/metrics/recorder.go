// Package metrics couples the shared counter store to the metric sink: an
// increment bumps the durable counter and fires the new value as a
// high-watermark metric, so restarts never reset the reported totals.
package metrics

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/ports"
)

// counterPrefix namespaces engine counters inside the shared store.
const counterPrefix = "metrics."

// Recorder increments named counters and mirrors them to the sink.
type Recorder struct {
	counters ports.CounterStore
	sink     ports.MetricsSink
	logger   *slog.Logger
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used when a counter increment fails.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a recorder over the given collaborators.
func NewRecorder(counters ports.CounterStore, sink ports.MetricsSink, opts ...Option) *Recorder {
	r := &Recorder{
		counters: counters,
		sink:     sink,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Incr atomically increments the named counter and fires the new value as
// a high-watermark metric. A store failure is logged and resolves to 0:
// metrics degrade silently rather than blocking conversation progress.
func (r *Recorder) Incr(ctx context.Context, name string) int64 {
	v, err := r.counters.Incr(ctx, counterPrefix+name, 1)
	if err != nil {
		r.logger.Warn("failed to increment metric", "metric", name, "err", err)
		return 0
	}
	r.sink.FireMax(name, float64(v))
	return v
}

// Sink exposes the underlying sink for fire-and-forget metrics that do not
// need a durable counter.
func (r *Recorder) Sink() ports.MetricsSink {
	return r.sink
}
