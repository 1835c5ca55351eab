package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/switchboard/pkg/domain"
)

func TestPipeline_RunsReactionsInRegistrationOrder(t *testing.T) {
	p := NewPipeline()
	var order []string

	p.On(domain.EventSessionNew, func(ctx context.Context, ev *domain.Event) error {
		order = append(order, "first")
		return nil
	})
	p.On(domain.EventSessionNew, func(ctx context.Context, ev *domain.Event) error {
		order = append(order, "second")
		return nil
	})
	p.On(domain.EventSessionClose, func(ctx context.Context, ev *domain.Event) error {
		order = append(order, "other-kind")
		return nil
	})

	p.Emit(context.Background(), &domain.Event{Kind: domain.EventSessionNew})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPipeline_LaterReactionReadsEarlierWrite(t *testing.T) {
	p := NewPipeline()
	var seen int

	p.On(domain.EventSessionNew, func(ctx context.Context, ev *domain.Event) error {
		ev.Session.Profile.Increment("ussd_sessions")
		return nil
	})
	p.On(domain.EventSessionNew, func(ctx context.Context, ev *domain.Event) error {
		seen = ev.Session.Profile.GetInt("ussd_sessions", 0)
		return nil
	})

	sess := &domain.Session{Identity: "111", Profile: domain.NewProfile()}
	p.Emit(context.Background(), &domain.Event{Kind: domain.EventSessionNew, Session: sess})

	assert.Equal(t, 1, seen)
}

func TestPipeline_FailureDoesNotAbortChain(t *testing.T) {
	p := NewPipeline()
	var ran bool

	p.On(domain.EventStateEnter, func(ctx context.Context, ev *domain.Event) error {
		return errors.New("side effect exploded")
	})
	p.On(domain.EventStateEnter, func(ctx context.Context, ev *domain.Event) error {
		ran = true
		return nil
	})

	p.Emit(context.Background(), &domain.Event{Kind: domain.EventStateEnter})

	assert.True(t, ran, "a failed reaction must not stop the ones after it")
}
