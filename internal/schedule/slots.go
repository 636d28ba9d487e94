package schedule

// Booking window shape: a rolling run of consecutive calendar days, with a
// fixed daily grid of half-hour slots.
const (
	// BookingWindowDays is how many calendar days are offered for booking.
	BookingWindowDays = 14

	slotIntervalMinutes = 30
	firstSlotHour       = 9
	firstSlotMinute     = 0
)

// SameDayCutoff is the org-local instant after which today is no longer
// offerable. It is also the last slot of the daily grid, and the same
// boundary drives same-day upcoming-vs-past classification; the two rules
// must never drift apart.
var SameDayCutoff = ClockTime{Hour: 16, Minute: 30}

// OfferableDates returns the rolling window of bookable calendar days for
// the given "now". Before the cutoff the window starts today; at or after
// the cutoff (16:30:00 exactly counts as after) it starts tomorrow.
// Always exactly BookingWindowDays consecutive days, weekends included.
func OfferableDates(now CivilDateTime) []CivilDate {
	start := now.Date
	if !now.Clock.Before(SameDayCutoff) {
		start = start.AddDays(1)
	}

	dates := make([]CivilDate, 0, BookingWindowDays)
	for i := 0; i < BookingWindowDays; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

// OfferableTimes returns the daily slot grid: 09:00 through 16:30
// inclusive, every 30 minutes. The grid is a timezone-agnostic template;
// combined with a date it is read in the org timezone.
func OfferableTimes() []ClockTime {
	var times []ClockTime
	c := ClockTime{Hour: firstSlotHour, Minute: firstSlotMinute}
	for !SameDayCutoff.Before(c) {
		times = append(times, c)
		total := c.Minutes() + slotIntervalMinutes
		c = ClockTime{Hour: total / 60, Minute: total % 60}
	}
	return times
}

// TimeSelectable reports whether a slot may still be chosen. Only same-day
// slots earlier than "now" are blocked; future dates are fully open.
func TimeSelectable(date CivilDate, t ClockTime, now CivilDateTime) bool {
	if date != now.Date {
		return true
	}
	return !t.Before(now.Clock)
}
