// Package testutils provides recording fakes shared by the engine tests.
package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/switchboard/pkg/directory"
	"github.com/aretw0/switchboard/pkg/domain"
)

// CallLog records side effects in the order they happened, so tests can
// assert cross-component ordering.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// Add appends one entry.
func (l *CallLog) Add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, entry)
}

// Calls returns a copy of the recorded entries.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

// Sink is a MetricsSink recording every fire into the log.
type Sink struct {
	Log *CallLog
}

func (s *Sink) FireInc(name string) {
	s.Log.Add("inc:" + name)
}

func (s *Sink) FireAvg(name string, value float64) {
	s.Log.Add("avg:" + name)
}

func (s *Sink) FireMax(name string, value float64) {
	s.Log.Add("max:" + name)
}

// Notifier records sends and optionally fails.
type Notifier struct {
	Log  *CallLog
	Fail bool
}

func (n *Notifier) Send(ctx context.Context, identity, text string) (bool, error) {
	n.Log.Add("notify:" + identity)
	return !n.Fail, nil
}

// Directory wraps the dummy directory, recording registrations and
// optionally failing them.
type Directory struct {
	*directory.Dummy
	Log         *CallLog
	RegisterErr error

	mu          sync.Mutex
	Registered  []domain.Registration
	MemberKnown map[string]bool // number -> in group; absent means lookup unavailable
}

// NewDirectory creates a recording directory over the dummy fixture data.
func NewDirectory(log *CallLog) *Directory {
	return &Directory{
		Dummy:       directory.NewDummy(),
		Log:         log,
		MemberKnown: make(map[string]bool),
	}
}

func (d *Directory) RegisterIdentity(ctx context.Context, reg domain.Registration) error {
	d.Log.Add("register:" + reg.Identity)
	if d.RegisterErr != nil {
		return d.RegisterErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Registered = append(d.Registered, reg)
	return nil
}

func (d *Directory) CheckMemberNumber(ctx context.Context, number string) (*domain.MemberStatus, error) {
	in, known := d.MemberKnown[number]
	if !known {
		return nil, nil
	}
	return &domain.MemberStatus{InGroup: in}, nil
}
