package domain

// Profile is the persisted per-identity bag of answers, counters and flags.
// It survives across sessions; the engine owns it exclusively for the
// duration of one turn. Concurrent turns for the same identity must be
// serialized by the caller (see pkg/session).
type Profile struct {
	// CurrentState is the name of the state the conversation is at.
	// Empty means the identity has never been seen.
	CurrentState string `json:"current_state"`

	// Items holds counters, flags and collected answers keyed by item name.
	Items map[string]any `json:"items,omitempty"`
}

// NewProfile creates an empty profile positioned before the entry point.
func NewProfile() *Profile {
	return &Profile{Items: make(map[string]any)}
}

// Get returns the value stored under item, or def when absent.
func (p *Profile) Get(item string, def any) any {
	if p.Items == nil {
		return def
	}
	v, ok := p.Items[item]
	if !ok {
		return def
	}
	return v
}

// Set stores value under item.
func (p *Profile) Set(item string, value any) {
	if p.Items == nil {
		p.Items = make(map[string]any)
	}
	p.Items[item] = value
}

// Increment adds one to the integer counter stored under item and returns
// the new value. It is a plain read-modify-write: single-turn extent only,
// no cross-turn atomicity.
func (p *Profile) Increment(item string) int {
	v := p.GetInt(item, 0) + 1
	p.Set(item, v)
	return v
}

// GetInt returns the counter stored under item as an int, tolerating the
// float64 representation JSON round-trips produce.
func (p *Profile) GetInt(item string, def int) int {
	switch v := p.Get(item, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// GetString returns the value stored under item as a string, or def when
// absent or not a string.
func (p *Profile) GetString(item string, def string) string {
	if s, ok := p.Get(item, def).(string); ok {
		return s
	}
	return def
}

const answerPrefix = "answers."

// SetAnswer stores a collected free-text answer for the given state name.
func (p *Profile) SetAnswer(state, value string) {
	p.Set(answerPrefix+state, value)
}

// Answer returns the collected answer for the given state name, or "".
func (p *Profile) Answer(state string) string {
	return p.GetString(answerPrefix+state, "")
}

// Session is the live view of one identity's conversation during a single
// turn. It wraps the persisted profile with transient per-turn data.
type Session struct {
	// Identity is the opaque endpoint address of the remote party.
	Identity string

	// Profile is the persisted state; mutations are written back by the
	// engine once the turn completes.
	Profile *Profile

	// New marks a session whose identity had no persisted profile at the
	// start of the turn.
	New bool
}

// TurnResult is what a completed turn hands back to the transport.
type TurnResult struct {
	// Prompt is the text to present to the remote party.
	Prompt string
	// Terminal reports that the session has ended and no further input is
	// expected.
	Terminal bool
	// State is the name of the state the session is at after the turn.
	State string
}
