package registration

import (
	"context"

	"github.com/aretw0/switchboard/internal/runtime"
	"github.com/aretw0/switchboard/pkg/domain"
)

// Notification copy. Translation catalogs are out of scope; these are the
// deployment's strings.
const (
	smsFirstSessionEnd = "Thank you for beginning your registration process." +
		" Please dial *149*24# again to complete your registration in a few" +
		" easy steps."
	smsAbort = "If you would like to register at a later date please dial" +
		" *149*24#."
	smsFirstTimeout = "Your session has ended but you have not completed" +
		" your registration. Please dial *149*24# again to continue with" +
		" your registration where you left off."
)

// Attach registers the flow's lifecycle reactions on the pipeline. Order
// matters within one event kind: the session counter is incremented before
// anything that reads it.
func (f *Flow) Attach(p *runtime.Pipeline) {
	p.On(domain.EventNewIdentity, f.onNewIdentity)
	p.On(domain.EventSessionNew, f.onSessionNew)
	p.On(domain.EventSessionClose, f.onSessionClose)
	p.On(domain.EventStateEnter, f.onStateEnter)
	p.On(domain.EventStateExit, f.onStateExit)
}

func (f *Flow) onNewIdentity(ctx context.Context, ev *domain.Event) error {
	f.recorder.Incr(ctx, "unique_users")
	return nil
}

func (f *Flow) onSessionNew(ctx context.Context, ev *domain.Event) error {
	f.recorder.Incr(ctx, "ussd_sessions")
	f.recorder.Sink().FireInc("session_new_in." + ev.StateName)
	ev.Session.Profile.Increment("ussd_sessions")
	return nil
}

// onSessionClose counts where sessions end. On a possible timeout it also
// bumps the per-identity timeout counter, and only the first timeout ever
// triggers the reminder SMS; later ones count silently.
func (f *Flow) onSessionClose(ctx context.Context, ev *domain.Event) error {
	f.recorder.Sink().FireInc("session_closed_in." + ev.StateName)
	if !ev.PossibleTimeout {
		return nil
	}
	f.recorder.Sink().FireInc("possible_timeout_in." + ev.StateName)
	if timeouts := ev.Session.Profile.Increment("possible_timeouts"); timeouts <= 1 {
		f.notify(ctx, ev.Session.Identity, smsFirstTimeout)
	}
	return nil
}

func (f *Flow) onStateEnter(ctx context.Context, ev *domain.Event) error {
	f.recorder.Sink().FireInc("state_entered." + ev.StateName)
	return nil
}

func (f *Flow) onStateExit(ctx context.Context, ev *domain.Event) error {
	f.recorder.Sink().FireInc("state_exited." + ev.StateName)
	return nil
}
