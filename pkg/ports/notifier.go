package ports

import "context"

// Notifier delivers out-of-band notifications (SMS or equivalent) to an
// identity. Failures are reported but must never block a turn.
type Notifier interface {
	// Send delivers text to identity and reports acceptance.
	Send(ctx context.Context, identity, text string) (bool, error)
}

// NopNotifier is a Notifier used when no routing is configured. It
// trivially succeeds.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, string, string) (bool, error) {
	return true, nil
}
