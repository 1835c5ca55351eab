/*
Package domain contains the core domain models for the Switchboard USSD engine.

It defines the fundamental entities of the conversation state machine: the
tagged-variant States, the Graph that holds them, the per-identity Profile,
and the lifecycle Events consumed by the event pipeline. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: a named node in the conversation graph (Menu, FreeInput or Terminal).
  - Graph: the name-to-state mapping, validated for referential completeness.
  - Session: the live view of one identity's conversation during a turn.
  - Profile: the persisted per-identity bag of answers, counters and flags.
  - Event: a lifecycle notification (session new/close, state enter/exit).
*/
package domain
