package schedule

// RawStatus is the appointment status as stored by the backend.
type RawStatus string

const (
	StatusScheduled RawStatus = "scheduled"
	StatusConfirmed RawStatus = "confirmed"
	StatusCompleted RawStatus = "completed"
	StatusCancelled RawStatus = "cancelled"
	StatusNoShow    RawStatus = "no_show"
)

// DisplayStatus is the bucket an appointment renders under. Derived, never
// stored; recomputed against "now" on every read.
type DisplayStatus string

const (
	DisplayUpcoming  DisplayStatus = "upcoming"
	DisplayPast      DisplayStatus = "past"
	DisplayCancelled DisplayStatus = "cancelled"
)

// Classify maps a raw record to its display bucket. The dashboard counts,
// the list screen, and the next-session picker all call this and must
// never disagree.
//
// Terminal raw statuses win regardless of date: cancelled is Cancelled,
// completed and no_show are Past even when future-dated. For live statuses
// the record is Upcoming when it occurs at or after "now" (inclusive, the
// same boundary the slot cutoff uses). Anything unparseable is Past:
// better to under-offer than to surface a dead session as active.
func Classify(raw RawStatus, dateStr, timeStr string, now CivilDateTime) DisplayStatus {
	switch raw {
	case StatusCancelled:
		return DisplayCancelled
	case StatusCompleted, StatusNoShow:
		return DisplayPast
	case StatusScheduled, StatusConfirmed:
		occursAt, err := ParseDateTime(dateStr, timeStr)
		if err != nil {
			return DisplayPast
		}
		if Compare(occursAt, now) >= 0 {
			return DisplayUpcoming
		}
		return DisplayPast
	default:
		return DisplayPast
	}
}

// CountableAsUpcoming reports whether a record belongs in the dashboard's
// upcoming badge.
func CountableAsUpcoming(raw RawStatus, dateStr, timeStr string, now CivilDateTime) bool {
	return Classify(raw, dateStr, timeStr, now) == DisplayUpcoming
}

// CountableAsCompleted reports whether a record belongs in the dashboard's
// completed badge: everything Past that is not cancelled.
func CountableAsCompleted(raw RawStatus, dateStr, timeStr string, now CivilDateTime) bool {
	if raw == StatusCancelled {
		return false
	}
	return Classify(raw, dateStr, timeStr, now) == DisplayPast
}
