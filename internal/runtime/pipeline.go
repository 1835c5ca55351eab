package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
)

// Reaction is an asynchronous step triggered by a lifecycle event. A
// non-nil error is logged and the chain continues; a reaction is never
// allowed to abort the turn.
type Reaction func(ctx context.Context, ev *domain.Event) error

// Pipeline maintains an ordered list of reactions per event kind and runs
// them strictly in registration order. A later reaction starts only after
// the earlier one has settled, so reactions may read counters incremented
// by the ones registered before them.
type Pipeline struct {
	reactions map[domain.EventKind][]Reaction
	logger    *slog.Logger
}

// PipelineOption configures the Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the logger used for reaction failures.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reactions: make(map[domain.EventKind][]Reaction),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// On appends a reaction for the given event kind.
func (p *Pipeline) On(kind domain.EventKind, r Reaction) {
	p.reactions[kind] = append(p.reactions[kind], r)
}

// Emit runs every reaction registered for the event's kind, in order.
// It returns once the whole chain has settled; the emitting turn is not
// complete before that.
func (p *Pipeline) Emit(ctx context.Context, ev *domain.Event) {
	for _, r := range p.reactions[ev.Kind] {
		if err := r(ctx, ev); err != nil {
			p.logger.Warn("event reaction failed",
				"event", string(ev.Kind),
				"state", ev.StateName,
				"err", err,
			)
		}
	}
}
