/*
Package ports defines the driven ports (interfaces) for the Switchboard engine.

These interfaces decouple the core conversation logic from external
implementations, allowing the engine to work with various counter stores,
metric sinks, notification channels and directory backends.

# Key Interfaces

  - ProfileStore: persists per-identity profiles between turns.
  - CounterStore: atomic named counters shared across the deployment.
  - MetricsSink: fire-and-forget operational metrics.
  - Notifier: outbound notification channel (SMS or equivalent).
  - Directory: the external directory/registration service.
  - DistributedLocker: cross-replica serialization of one identity's turns.
*/
package ports
