package domain

import "errors"

// ErrProfileNotFound is returned when an identity has no persisted profile.
var ErrProfileNotFound = errors.New("profile not found")

// ErrUnknownState is returned when a transition targets a state that is not
// part of the graph.
var ErrUnknownState = errors.New("unknown state")
