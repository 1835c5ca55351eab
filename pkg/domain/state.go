package domain

import "context"

// StateKind constants define the dispatch behavior of a state.
const (
	// KindMenu displays a prompt with numbered choices and routes on the
	// chosen value.
	KindMenu = "menu"
	// KindFreeInput displays a prompt and consumes one line of free text.
	KindFreeInput = "free_input"
	// KindTerminal displays a closing prompt and ends the session.
	KindTerminal = "terminal"
)

// HandlerFunc inspects raw input and resolves to a next-state name.
// Expected failures must be modeled as transitions to an explicit error
// state; a returned error is treated as a programming defect and aborts
// the turn.
type HandlerFunc func(ctx context.Context, sess *Session, input string) (string, error)

// EnterFunc is a side-effect executed when a terminal state is entered.
// The turn is not complete until it returns.
type EnterFunc func(ctx context.Context, sess *Session) error

// Choice is one selectable entry of a menu state.
type Choice struct {
	Value string
	Label string
}

// State represents a named node in the conversation graph.
//
// Only the fields matching Kind are meaningful. Use the NewMenu,
// NewFreeInput, NewFreeInputFunc and NewTerminal constructors rather than
// building the struct by hand.
type State struct {
	Name   string
	Kind   string
	Prompt string

	// Menu configuration.
	Choices []Choice
	// Routes maps a matched choice value to the next state name.
	Routes map[string]string
	// Fallback is the state routed to on an unmatched choice. Empty means
	// the menu re-prompts without advancing.
	Fallback string

	// FreeInput configuration. When Handler is nil the raw input is stored
	// in the profile under AnswerKey and the state transitions to Next
	// unconditionally.
	AnswerKey string
	Handler   HandlerFunc

	// Next is the fixed transition target for free-input states, and the
	// resume target for terminal states (where the identity starts on its
	// next session). Empty on a terminal state means the conversation
	// restarts at the graph entry point.
	Next string

	// OnEnter runs when a terminal state is reached, before the turn
	// response is returned.
	OnEnter EnterFunc
}

// NewMenu creates a menu state. Unmatched input routes to fallback, or
// re-prompts when fallback is empty.
func NewMenu(name, prompt string, choices []Choice, routes map[string]string, fallback string) *State {
	return &State{
		Name:     name,
		Kind:     KindMenu,
		Prompt:   prompt,
		Choices:  choices,
		Routes:   routes,
		Fallback: fallback,
	}
}

// NewFreeInput creates a free-text state that stores the answer under the
// state's own name and transitions to next.
func NewFreeInput(name, prompt, next string) *State {
	return &State{
		Name:      name,
		Kind:      KindFreeInput,
		Prompt:    prompt,
		AnswerKey: name,
		Next:      next,
	}
}

// NewFreeInputFunc creates a free-text state whose handler inspects the
// input and resolves the next state name itself.
func NewFreeInputFunc(name, prompt string, handler HandlerFunc) *State {
	return &State{
		Name:    name,
		Kind:    KindFreeInput,
		Prompt:  prompt,
		Handler: handler,
	}
}

// NewTerminal creates a session-ending state. next names the state a new
// session starts at; onEnter (optional) runs before the closing prompt is
// returned.
func NewTerminal(name, prompt, next string, onEnter EnterFunc) *State {
	return &State{
		Name:    name,
		Kind:    KindTerminal,
		Prompt:  prompt,
		Next:    next,
		OnEnter: onEnter,
	}
}
