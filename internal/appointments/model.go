package appointments

import (
	"strings"
	"time"

	"github.com/wellmind/support-platform/internal/schedule"
)

// PlaceholderWorkerName is shown when a record has no display name for its
// assigned support worker and the directory lookup yields nothing.
const PlaceholderWorkerName = "Support Worker"

// SessionType is the medium of a support session.
type SessionType string

const (
	SessionVideo    SessionType = "video"
	SessionPhone    SessionType = "phone"
	SessionInPerson SessionType = "in_person"
)

// ValidSessionType reports whether s is a known session medium.
func ValidSessionType(s SessionType) bool {
	switch s {
	case SessionVideo, SessionPhone, SessionInPerson:
		return true
	}
	return false
}

// Appointment is a raw booking record as returned by the store. Date and
// Time stay strings end to end; the schedule package owns all parsing and
// comparison so no caller does its own date math.
type Appointment struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	Date              string              `json:"date"` // YYYY-MM-DD
	Time              string              `json:"time"` // HH:MM, normalized 24h
	SessionType       SessionType         `json:"session_type"`
	Status            schedule.RawStatus  `json:"status"`
	Notes             string              `json:"notes,omitempty"`
	SupportWorkerID   string              `json:"support_worker_id,omitempty"`
	SupportWorkerName string              `json:"support_worker_name,omitempty"`
	RescheduledFrom   string              `json:"rescheduled_from,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// OccursAt parses the record's civil date/time. Records that fail here are
// classified Past by the schedule package, never silently upcoming.
func (a Appointment) OccursAt() (schedule.CivilDateTime, error) {
	return schedule.ParseDateTime(a.Date, a.Time)
}

// DisplayStatus classifies the record against "now".
func (a Appointment) DisplayStatus(now schedule.CivilDateTime) schedule.DisplayStatus {
	return schedule.Classify(a.Status, a.Date, a.Time, now)
}

// DisplayWorkerName returns the worker label for rendering, substituting
// the placeholder when no name is known.
func (a Appointment) DisplayWorkerName() string {
	if name := strings.TrimSpace(a.SupportWorkerName); name != "" {
		return name
	}
	return PlaceholderWorkerName
}
