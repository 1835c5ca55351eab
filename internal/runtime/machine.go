package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Machine is the conversation engine. It holds the current state name per
// identity, dispatches a turn's input to the current state's handler,
// computes the next state and emits lifecycle events through the pipeline.
//
// The machine is pure with respect to conversation logic: it never talks to
// the directory or metric sinks directly, only via state handlers and event
// reactions.
type Machine struct {
	graph    *domain.Graph
	store    ports.ProfileStore
	pipeline *Pipeline
	logger   *slog.Logger
}

// Option configures the Machine.
type Option func(*Machine)

// WithLogger sets a structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a machine for the given graph. The graph is validated
// for referential completeness; a broken graph is a construction error,
// never a runtime surprise.
func NewMachine(graph *domain.Graph, store ports.ProfileStore, pipeline *Pipeline, opts ...Option) (*Machine, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		graph:    graph,
		store:    store,
		pipeline: pipeline,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// HandleTurn processes one request/response exchange. A nil input marks the
// opening turn of a session (the transport delivered no content); otherwise
// the input is dispatched to the current state's handler.
func (m *Machine) HandleTurn(ctx context.Context, identity string, input *string) (*domain.TurnResult, error) {
	sess, err := m.loadSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	if input == nil {
		return m.openSession(ctx, sess)
	}
	return m.consumeInput(ctx, sess, *input)
}

// HandleClose reacts to the transport reporting the channel closed, either
// explicitly or by timeout. It is the only way a timeout reaches the
// engine; there is no in-band cancellation of a running turn.
func (m *Machine) HandleClose(ctx context.Context, identity string, possibleTimeout bool) error {
	sess, err := m.loadSession(ctx, identity)
	if err != nil {
		return err
	}
	if sess.New {
		// Close for an identity we never spoke to; nothing to record.
		return nil
	}

	m.pipeline.Emit(ctx, &domain.Event{
		Kind:            domain.EventSessionClose,
		Session:         sess,
		StateName:       sess.Profile.CurrentState,
		PossibleTimeout: possibleTimeout,
	})

	return m.persist(ctx, sess)
}

func (m *Machine) loadSession(ctx context.Context, identity string) (*domain.Session, error) {
	profile, err := m.store.Load(ctx, identity)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = domain.NewProfile()
		return &domain.Session{Identity: identity, Profile: profile, New: true}, nil
	default:
		return nil, fmt.Errorf("failed to load profile for %q: %w", identity, err)
	}
	return &domain.Session{Identity: identity, Profile: profile}, nil
}

// openSession positions the session at its resume state and emits the
// session lifecycle events.
func (m *Machine) openSession(ctx context.Context, sess *domain.Session) (*domain.TurnResult, error) {
	current, err := m.resumeState(sess.Profile)
	if err != nil {
		return nil, err
	}
	sess.Profile.CurrentState = current.Name

	if sess.New {
		m.pipeline.Emit(ctx, &domain.Event{
			Kind:      domain.EventNewIdentity,
			Session:   sess,
			StateName: current.Name,
		})
	}
	m.pipeline.Emit(ctx, &domain.Event{
		Kind:      domain.EventSessionNew,
		Session:   sess,
		StateName: current.Name,
	})

	result := &domain.TurnResult{
		Prompt: current.Prompt,
		State:  current.Name,
	}
	if current.Kind == domain.KindTerminal {
		// A graph may legitimately open on a terminal state (e.g. a closed
		// deployment); honor its contract.
		result.Terminal = true
		m.runOnEnter(ctx, sess, current)
	}

	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	return result, nil
}

// resumeState resolves where a fresh session starts: the graph entry point
// for new identities, the saved state for returning ones, and the terminal
// state's resume target when the last session ended the conversation.
func (m *Machine) resumeState(profile *domain.Profile) (*domain.State, error) {
	name := profile.CurrentState
	if name == "" {
		name = m.graph.Start()
	}
	current, err := m.graph.Get(name)
	if err != nil {
		return nil, err
	}
	if current.Kind == domain.KindTerminal {
		next := current.Next
		if next == "" {
			next = m.graph.Start()
		}
		return m.graph.Get(next)
	}
	return current, nil
}

// consumeInput dispatches a content turn to the current state and performs
// the resulting transition.
func (m *Machine) consumeInput(ctx context.Context, sess *domain.Session, input string) (*domain.TurnResult, error) {
	name := sess.Profile.CurrentState
	if name == "" {
		name = m.graph.Start()
		sess.Profile.CurrentState = name
	}
	current, err := m.graph.Get(name)
	if err != nil {
		return nil, err
	}

	var next string
	switch current.Kind {
	case domain.KindMenu:
		target, matched := current.Routes[input]
		switch {
		case matched:
			next = target
		case current.Fallback != "":
			next = current.Fallback
		default:
			// Unmatched choice re-prompts the same menu. Deterministic: no
			// events are emitted and the state does not advance.
			m.logger.Debug("unmatched menu choice",
				"state", current.Name, "input", input)
			return &domain.TurnResult{Prompt: current.Prompt, State: current.Name}, nil
		}

	case domain.KindFreeInput:
		if current.Handler != nil {
			next, err = current.Handler(ctx, sess, input)
			if err != nil {
				// Expected failures must be modeled as transitions; a
				// handler error is a defect.
				return nil, fmt.Errorf("handler for state %q failed: %w", current.Name, err)
			}
		} else {
			sess.Profile.SetAnswer(current.AnswerKey, input)
			next = current.Next
		}

	case domain.KindTerminal:
		// Terminal states consume no further input; repeat the closing
		// prompt without re-running its entry action.
		return &domain.TurnResult{Prompt: current.Prompt, State: current.Name, Terminal: true}, nil

	default:
		return nil, fmt.Errorf("state %q has unsupported kind %q", current.Name, current.Kind)
	}

	return m.transitionTo(ctx, sess, current, next)
}

// transitionTo moves the session from current to the named state, emitting
// state_exit before state_enter, and awaits the target's entry action when
// it is terminal.
func (m *Machine) transitionTo(ctx context.Context, sess *domain.Session, current *domain.State, next string) (*domain.TurnResult, error) {
	target, err := m.graph.Get(next)
	if err != nil {
		// Handler resolved to a state outside the graph: defect.
		return nil, fmt.Errorf("transition from %q: %w", current.Name, err)
	}

	m.pipeline.Emit(ctx, &domain.Event{
		Kind:      domain.EventStateExit,
		Session:   sess,
		StateName: current.Name,
	})

	sess.Profile.CurrentState = target.Name

	m.pipeline.Emit(ctx, &domain.Event{
		Kind:      domain.EventStateEnter,
		Session:   sess,
		StateName: target.Name,
	})

	result := &domain.TurnResult{
		Prompt: target.Prompt,
		State:  target.Name,
	}
	if target.Kind == domain.KindTerminal {
		result.Terminal = true
		m.runOnEnter(ctx, sess, target)
	}

	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	return result, nil
}

// runOnEnter awaits a terminal state's entry action. Its failure is logged
// and the turn still completes: the conversation is over either way and the
// remote party only ever sees errors through explicit states.
func (m *Machine) runOnEnter(ctx context.Context, sess *domain.Session, st *domain.State) {
	if st.OnEnter == nil {
		return
	}
	if err := st.OnEnter(ctx, sess); err != nil {
		m.logger.Error("terminal entry action failed",
			"state", st.Name, "identity", sess.Identity, "err", err)
	}
}

func (m *Machine) persist(ctx context.Context, sess *domain.Session) error {
	if err := m.store.Save(ctx, sess.Identity, sess.Profile); err != nil {
		return fmt.Errorf("failed to persist profile for %q: %w", sess.Identity, err)
	}
	return nil
}
