// Package registration defines the health-worker registration conversation:
// the state graph fed to the engine plus the lifecycle reactions that keep
// the operational counters and send follow-up notifications.
package registration

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/metrics"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Flow wires the registration conversation to its collaborators.
type Flow struct {
	dir      ports.Directory
	notifier ports.Notifier
	recorder *metrics.Recorder
	country  string
	logger   *slog.Logger
}

// Option configures the Flow.
type Option func(*Flow)

// WithCountry overrides the country code attached to registrations.
func WithCountry(code string) Option {
	return func(f *Flow) {
		f.country = code
	}
}

// WithLogger sets a structured logger for the flow.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// New creates the registration flow.
func New(dir ports.Directory, notifier ports.Notifier, recorder *metrics.Recorder, opts ...Option) *Flow {
	f := &Flow{
		dir:      dir,
		notifier: notifier,
		recorder: recorder,
		country:  "TZ",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Graph builds the conversation graph. The entry point is the intro menu;
// every session after a completed first registration resumes at the
// profile-update menu.
func (f *Flow) Graph() *domain.Graph {
	g := domain.NewGraph("intro")

	g.Add(domain.NewMenu("intro",
		"Welcome to HNP?\n To register select 1!\n  Kujiandikisha chagua 1",
		[]domain.Choice{
			{Value: "1", Label: "I want register!\n  Nataka Kujiandikisha"},
			{Value: "2", Label: "Cancel!"},
		},
		map[string]string{
			"1": "fname",
			"2": "cancel",
		},
		"",
	))

	g.Add(domain.NewFreeInput("fname",
		"Please enter your first name.\n\nIngiza Jina lako la Kwanza",
		"sname",
	))
	g.Add(domain.NewFreeInput("sname",
		"Please enter your surname.\n\nIngiza jina la Ukoo",
		"rnumber",
	))
	g.Add(domain.NewFreeInput("rnumber",
		"Enter your professional council reg #.\nIngiza namba ya usajili kwenye baraza",
		"terms_and_conditions",
	))

	g.Add(domain.NewMenu("terms_and_conditions",
		"Do you agree to the terms and conditions as laid out at"+
			" http://www.healthnetwork.or.tz ? Your local DMO will also"+
			" have a copy.",
		[]domain.Choice{
			{Value: "yes", Label: "Yes"},
			{Value: "no", Label: "No"},
		},
		map[string]string{
			"yes": "session1_end",
			"no":  "session1_abort_yn",
		},
		"",
	))

	g.Add(domain.NewMenu("session1_abort_yn",
		"We are sorry but you cannot be registered unless you agree to"+
			" the terms and conditions. Are you sure you would like to end"+
			" the registration process?",
		[]domain.Choice{
			{Value: "yes", Label: "Yes"},
			{Value: "no", Label: "No"},
		},
		map[string]string{
			"yes": "session1_abort",
			"no":  "terms_and_conditions",
		},
		"",
	))

	g.Add(domain.NewTerminal("session1_abort",
		"If you would like to register at a later date please dial *149*24#.",
		"intro",
		f.onAbort,
	))

	g.Add(domain.NewTerminal("session1_end",
		"Thank you. You have almost completed your registration process."+
			" Please dial *149*24# again to complete just a few more questions.",
		"update_profile",
		f.onFirstSessionEnd,
	))

	g.Add(domain.NewTerminal("cancel",
		"You can register later by dialling *149*24#!\n\n"+
			"Waweza kujiandikisha baadaye kwa kupiga *149*24#",
		"",
		nil,
	))

	// Registered identities resume here on their next session.
	g.Add(domain.NewMenu("update_profile",
		"What do you want to do?!\n\nUnataka kufanya nini?",
		[]domain.Choice{
			{Value: "1", Label: "Check if number is in CUG!\n  Nataka kutafuta kama namba ipo kwenye CUG"},
			{Value: "2", Label: "Update My Profile!\n  Nataka kuboresha taarifa zangu"},
		},
		map[string]string{
			"1": "enter_number_to_check",
			"2": "update_profile_menu",
		},
		"",
	))

	g.Add(domain.NewMenu("update_profile_menu",
		"Select what you want to update!\n  Chagua taarifa unayotaka kuboresha!",
		[]domain.Choice{
			{Value: "1", Label: "First name\n  Jina la Kwanza"},
			{Value: "2", Label: "Surname\n  Jina la ukoo (Ubini)"},
			{Value: "3", Label: "Registration Number\n  Namba ya usajili."},
		},
		map[string]string{
			"1": "update_firstname",
			"2": "update_surname",
			"3": "update_registration_number",
		},
		"invalid_action_selection",
	))

	g.Add(domain.NewFreeInputFunc("update_firstname",
		"Please enter your correct firstname!\n\n"+
			"  Tafadhali, andika jina lako la kwanza kiusahihi!",
		f.updateField("firstname"),
	))
	g.Add(domain.NewFreeInputFunc("update_surname",
		"Please enter your correct surname!\n\n"+
			"  Tafadhali, andika jina lako sahihi la ukoo.",
		f.updateField("surname"),
	))
	g.Add(domain.NewFreeInputFunc("update_registration_number",
		"Please enter your registration/license number!\nThis is the number"+
			" you get from your professional body like MCT, TNMC, etc!",
		f.updateField("mct_registration_num"),
	))

	g.Add(domain.NewTerminal("thank_you_update",
		"Thank you for updating your profile!\n\n"+
			"Tunakushukuru kwa kuboresha taarifa zako",
		"update_profile",
		nil,
	))
	g.Add(domain.NewTerminal("invalid_action_selection",
		"The choice was not correct! Repeat dialing *149*24#\n\n"+
			"Chaguo lako sio sahihi! Rudia tena kwa kupiga *149*24#",
		"update_profile",
		nil,
	))

	g.Add(domain.NewFreeInputFunc("enter_number_to_check",
		"Please enter the number you want to search in the CUG in the"+
			" format 07XXXXXXXX\n\nTafadhali, andika hapa namba unayotaka"+
			" kujua kama ipo kwenye CUG katika mfumo huu 07XXXXXXXX",
		f.checkNumber,
	))

	g.Add(domain.NewTerminal("cug_number_reply_found",
		"Thank you! This number is in the CUG! You can call it for free"+
			" if you are also in the CUG\n\nNamba hii ipo katika CUG,"+
			" unaweza ukaipigia bure kama nawe upo kwenye CUG.",
		"update_profile",
		nil,
	))
	g.Add(domain.NewTerminal("cug_number_reply_not_found",
		"Thank you! This number is not in the CUG! Tell them to register"+
			" at *149*24#\n\nAsante! Namba hii haipo katika CUG, Mtaarifu"+
			" mwenye namba ajiandikishe kwa kupiga *149*24#.",
		"update_profile",
		nil,
	))
	g.Add(domain.NewTerminal("invalid_request",
		"The system failed to query at this time. Try again later\n\n"+
			"Kuna tatizo la kiufundi kwa sasa. Tafadhali jaribu tena baadaye.",
		"update_profile",
		nil,
	))

	return g
}

// updateField builds the handler for the profile-update free-text states.
// A dropped tolerant write routes to the technical-problem state; expected
// failures stay modeled as transitions.
func (f *Flow) updateField(field string) domain.HandlerFunc {
	return func(ctx context.Context, sess *domain.Session, input string) (string, error) {
		ok, err := f.dir.UpdateProfileField(ctx, sess.Identity, field, input)
		if err != nil {
			return "", err
		}
		if !ok {
			return "invalid_request", nil
		}
		return "thank_you_update", nil
	}
}

// checkNumber resolves the CUG lookup to one of three reply states.
func (f *Flow) checkNumber(ctx context.Context, sess *domain.Session, input string) (string, error) {
	status, err := f.dir.CheckMemberNumber(ctx, input)
	if err != nil {
		return "", err
	}
	if status == nil {
		return "invalid_request", nil
	}
	if status.InGroup {
		return "cug_number_reply_found", nil
	}
	return "cug_number_reply_not_found", nil
}

// noRegNumber matches the placeholder values remote parties enter when
// they have no registration number.
var noRegNumber = regexp.MustCompile(`^[0Oo]$`)

// buildRegistration assembles the directory payload from the collected
// answers.
func (f *Flow) buildRegistration(sess *domain.Session) domain.Registration {
	p := sess.Profile
	first := p.Answer("fname")
	surname := p.Answer("sname")

	reg := domain.Registration{
		Identity:    sess.Identity,
		Country:     f.country,
		FullName:    first + " " + surname,
		FirstName:   first,
		Surname:     surname,
		Specialties: []domain.EntryID{},
	}

	if rn := p.Answer("rnumber"); rn != "" && !noRegNumber.MatchString(rn) {
		reg.RegistrationNumber = rn
	}
	if fac := p.Answer("facility_select"); fac != "" {
		reg.Facility = domain.EntryID(fac)
	}
	if spec := p.Answer("select_speciality"); spec != "" {
		reg.Specialties = append(reg.Specialties, domain.EntryID(spec))
	}
	return reg
}

// onFirstSessionEnd registers the identity, then counts the milestone,
// then sends the follow-up SMS. The order matters: the counter must not
// move for a failed registration and the SMS confirms a counted one.
func (f *Flow) onFirstSessionEnd(ctx context.Context, sess *domain.Session) error {
	if err := f.dir.RegisterIdentity(ctx, f.buildRegistration(sess)); err != nil {
		return err
	}
	f.recorder.Incr(ctx, "first_session_completed")
	f.notify(ctx, sess.Identity, smsFirstSessionEnd)

	sess.Profile.Set("registered", 1)
	sessions := sess.Profile.GetInt("ussd_sessions", 0)
	f.recorder.Sink().FireAvg("sessions_taken_to_register", float64(sessions))
	return nil
}

// onAbort sends the come-back-later SMS.
func (f *Flow) onAbort(ctx context.Context, sess *domain.Session) error {
	f.notify(ctx, sess.Identity, smsAbort)
	return nil
}

// notify sends through the configured channel; failure is logged, never
// propagated.
func (f *Flow) notify(ctx context.Context, identity, text string) {
	ok, err := f.notifier.Send(ctx, identity, text)
	if err != nil {
		f.logger.Warn("failed to send notification", "identity", identity, "err", err)
		return
	}
	f.logger.Info("notification sent", "identity", identity, "accepted", ok)
}
