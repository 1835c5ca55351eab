package domain

// EventKind defines the category of a lifecycle event.
type EventKind string

const (
	// EventNewIdentity fires once per identity, on its very first turn.
	EventNewIdentity EventKind = "new_identity"
	// EventSessionNew fires at the start of every session.
	EventSessionNew EventKind = "session_new"
	// EventSessionClose fires when the transport reports the channel closed.
	EventSessionClose EventKind = "session_close"
	// EventStateEnter fires after a transition lands on a state.
	EventStateEnter EventKind = "state_enter"
	// EventStateExit fires when a transition leaves a state.
	EventStateExit EventKind = "state_exit"
)

// Event is a lifecycle notification emitted by the state machine and
// consumed exactly once by the pipeline's registered reactions.
type Event struct {
	Kind    EventKind
	Session *Session

	// StateName is the state the event refers to (entered, exited, or the
	// current state for session events).
	StateName string

	// PossibleTimeout is set on session_close events whose cause could not
	// be distinguished from silent abandonment by the remote party.
	PossibleTimeout bool
}
