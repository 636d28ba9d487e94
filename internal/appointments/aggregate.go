package appointments

import (
	"sort"

	"github.com/wellmind/support-platform/internal/schedule"
)

// Aggregation over the upcoming and past record sets, which are fetched
// independently and may overlap. All functions here are pure in their
// resolved inputs: output never depends on which fetch finished first,
// and "now" is sampled once by the caller for the whole pass.

// CountUpcoming counts records the classifier puts in the upcoming bucket.
func CountUpcoming(records []Appointment, now schedule.CivilDateTime) int {
	n := 0
	for _, a := range records {
		if schedule.CountableAsUpcoming(a.Status, a.Date, a.Time, now) {
			n++
		}
	}
	return n
}

// CountCompleted counts the union of both record sets that classifies as
// past, excluding cancelled records. The classifier already buckets
// cancelled separately; the explicit status check guards against a source
// feeding a cancelled row through a stale classification.
func CountCompleted(upcoming, past []Appointment, now schedule.CivilDateTime) int {
	seen := make(map[string]struct{}, len(upcoming)+len(past))
	n := 0
	for _, a := range append(append([]Appointment{}, upcoming...), past...) {
		if a.ID != "" {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
		}
		if a.Status == schedule.StatusCancelled {
			continue
		}
		if schedule.CountableAsCompleted(a.Status, a.Date, a.Time, now) {
			n++
		}
	}
	return n
}

// PickNextSession returns the soonest upcoming record, or nil when there is
// none. Sort is stable: ties on (date, time) keep their original relative
// order, so the result does not depend on input ordering. The returned copy
// always carries a renderable worker name.
func PickNextSession(records []Appointment, now schedule.CivilDateTime) *Appointment {
	candidates := make([]Appointment, 0, len(records))
	for _, a := range records {
		if a.DisplayStatus(now) == schedule.DisplayUpcoming {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		// Upcoming records always parse; Classify already rejected the rest.
		ti, _ := candidates[i].OccursAt()
		tj, _ := candidates[j].OccursAt()
		return schedule.Compare(ti, tj) < 0
	})

	next := candidates[0]
	next.SupportWorkerName = next.DisplayWorkerName()
	return &next
}
