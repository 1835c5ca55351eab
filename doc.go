/*
Package switchboard drives multi-step USSD dialogs over a half-duplex,
turn-based channel.

The core is a conversation state machine with an ordered asynchronous
side-effect pipeline: each turn dispatches the remote party's input to the
current state, computes the next state, and emits lifecycle events whose
reactions keep operational counters and send notifications, in a guaranteed
order. Progress is persisted per identity between turns, and an external
directory/registration service is consulted through a normalizing client
with tolerant-failure write semantics.

Use New to wire a ready App from configuration, or assemble the pieces
directly from pkg/domain, internal/runtime and the adapter packages.
*/
package switchboard
