// Package booking models the multi-step booking wizard: an in-progress
// draft, its forward-only state transitions, and the flat parameter form
// it travels in between screens.
package booking

import (
	"errors"
	"fmt"

	"github.com/wellmind/support-platform/internal/appointments"
	"github.com/wellmind/support-platform/internal/schedule"
)

// Draft errors are rejected at the draft boundary; the calling screen keeps
// its previous valid state and shows an inline notice.
var (
	ErrInvalidSelection = errors.New("booking: invalid selection")
	ErrNotesTooLong     = errors.New("booking: notes exceed limit")
)

// MaxNotesLength mirrors the booking form's input limit.
const MaxNotesLength = 500

// State tracks how far the booking wizard has progressed. Transitions move
// forward one field at a time; overwriting an earlier field cascades resets
// forward (changing the date always clears the time).
type State int

const (
	StateEmpty State = iota
	StateTypeChosen
	StateDateChosen
	StateTimeChosen
	StateReadyToConfirm
)

// Draft accumulates a user's in-progress selections across the booking
// wizard. Pure data: submission is the caller's concern, and the draft is
// kept intact on submission failure so the user can retry.
type Draft struct {
	sessionType  appointments.SessionType
	date         *schedule.CivilDate
	timeOfDay    *schedule.ClockTime
	notes        string
	rescheduleOf string
}

// NewDraft starts an empty draft for a fresh booking.
func NewDraft() *Draft {
	return &Draft{}
}

// NewRescheduleDraft starts a draft that replaces an existing appointment.
// The original id is carried verbatim through serialization; the
// confirmation step depends on it unchanged.
func NewRescheduleDraft(appointmentID string) *Draft {
	return &Draft{rescheduleOf: appointmentID}
}

// SetSessionType records the chosen medium. No cascade.
func (d *Draft) SetSessionType(t appointments.SessionType) error {
	if !appointments.ValidSessionType(t) {
		return fmt.Errorf("%w: session type %q", ErrInvalidSelection, t)
	}
	d.sessionType = t
	return nil
}

// SetDate records the chosen day and clears any chosen time: a time
// selection is only meaningful relative to its date.
func (d *Draft) SetDate(date schedule.CivilDate) {
	d.date = &date
	d.timeOfDay = nil
}

// SetTime records the chosen slot. Rejected when no date is set or when the
// slot is no longer selectable for that date at call time; the draft is
// unchanged on rejection.
func (d *Draft) SetTime(t schedule.ClockTime, now schedule.CivilDateTime) error {
	if d.date == nil {
		return fmt.Errorf("%w: time chosen before date", ErrInvalidSelection)
	}
	if !schedule.TimeSelectable(*d.date, t, now) {
		return fmt.Errorf("%w: %s on %s already passed", ErrInvalidSelection, t, d.date.ISO())
	}
	d.timeOfDay = &t
	return nil
}

// SetNotes records free-text notes, bounded by the form limit.
func (d *Draft) SetNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	d.notes = notes
	return nil
}

// State reports the wizard progress implied by the fields currently set.
// TimeChosen means date and time are picked but the session type is still
// riding the default; an explicit type choice promotes to ReadyToConfirm.
// Both states pass CanProceed, since the type defaults silently.
func (d *Draft) State() State {
	switch {
	case d.timeOfDay != nil && d.sessionType != "":
		return StateReadyToConfirm
	case d.timeOfDay != nil:
		return StateTimeChosen
	case d.date != nil:
		return StateDateChosen
	case d.sessionType != "":
		return StateTypeChosen
	default:
		return StateEmpty
	}
}

// SessionType returns the chosen medium, defaulting to video when the user
// never picked one.
func (d *Draft) SessionType() appointments.SessionType {
	if d.sessionType == "" {
		return appointments.SessionVideo
	}
	return d.sessionType
}

// Date returns the selected date, if set.
func (d *Draft) Date() (schedule.CivilDate, bool) {
	if d.date == nil {
		return schedule.CivilDate{}, false
	}
	return *d.date, true
}

// Time returns the selected slot, if set.
func (d *Draft) Time() (schedule.ClockTime, bool) {
	if d.timeOfDay == nil {
		return schedule.ClockTime{}, false
	}
	return *d.timeOfDay, true
}

// Notes returns the free-text notes.
func (d *Draft) Notes() string {
	return d.notes
}

// RescheduleOf returns the original appointment id when the wizard was
// entered in reschedule mode.
func (d *Draft) RescheduleOf() string {
	return d.rescheduleOf
}

// CanProceed reports whether the draft is complete enough for the
// confirmation screen: date and time set. Session type defaults silently.
func (d *Draft) CanProceed() bool {
	return d.date != nil && d.timeOfDay != nil
}

// Navigation parameter keys. The wizard passes these between screens as a
// flat string map; the confirmation step reads them back verbatim.
const (
	ParamSessionType   = "sessionType"
	ParamDate          = "date"
	ParamDateDisplay   = "dateDisplay"
	ParamTime          = "time"
	ParamNotes         = "notes"
	ParamReschedule    = "reschedule"
	ParamAppointmentID = "appointmentId"
)

// NavigationParams serializes the draft for the next screen. Dates travel
// both machine-readable (ISO) and display-formatted; reschedule fields
// round-trip unchanged.
func (d *Draft) NavigationParams() map[string]string {
	params := map[string]string{
		ParamSessionType: string(d.SessionType()),
	}
	if d.date != nil {
		params[ParamDate] = d.date.ISO()
		params[ParamDateDisplay] = d.date.Display()
	}
	if d.timeOfDay != nil {
		params[ParamTime] = d.timeOfDay.String()
	}
	if d.notes != "" {
		params[ParamNotes] = d.notes
	}
	if d.rescheduleOf != "" {
		params[ParamReschedule] = "1"
		params[ParamAppointmentID] = d.rescheduleOf
	}
	return params
}

// DraftFromParams rebuilds a draft from serialized navigation parameters,
// re-validating every selection against "now". The confirmation step uses
// this so a slot that expired while the user lingered is rejected rather
// than submitted.
func DraftFromParams(params map[string]string, now schedule.CivilDateTime) (*Draft, error) {
	d := NewDraft()
	if params[ParamReschedule] == "1" {
		d.rescheduleOf = params[ParamAppointmentID]
	}

	if v, ok := params[ParamSessionType]; ok && v != "" {
		if err := d.SetSessionType(appointments.SessionType(v)); err != nil {
			return nil, err
		}
	}
	if v, ok := params[ParamDate]; ok && v != "" {
		date, err := schedule.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		d.SetDate(date)
	}
	if v, ok := params[ParamTime]; ok && v != "" {
		clock, err := schedule.ParseClock(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		if err := d.SetTime(clock, now); err != nil {
			return nil, err
		}
	}
	if v, ok := params[ParamNotes]; ok {
		if err := d.SetNotes(v); err != nil {
			return nil, err
		}
	}
	return d, nil
}
