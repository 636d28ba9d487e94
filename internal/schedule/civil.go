package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OrgTimezone is the IANA zone all appointment wall-clock times are
// interpreted in, regardless of the device locale. DST-aware on purpose:
// a fixed UTC-7 offset drifts an hour during daylight-saving months.
const OrgTimezone = "America/Denver"

// ErrParse marks a date or time string that could not be interpreted.
// Callers treat unparseable records as past/unselectable, never upcoming.
var ErrParse = errors.New("schedule: malformed date/time")

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// CivilDate is a calendar date with no time-of-day component.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateTime pairs a calendar date with an optional time-of-day.
// Comparisons treat a missing clock as 00:00.
type CivilDateTime struct {
	Date     CivilDate
	Clock    ClockTime
	HasClock bool
}

// OrgLocation returns the organization's *time.Location.
// Falls back to UTC if the zone database is unavailable.
func OrgLocation() *time.Location {
	loc, err := time.LoadLocation(OrgTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now projects the current instant into the organization timezone.
func Now() CivilDateTime {
	return FromTime(time.Now().In(OrgLocation()))
}

// FromTime converts an absolute instant to a civil date/time in the
// instant's own location. Callers wanting org-local values must convert
// with In(OrgLocation()) first; Now does this already.
func FromTime(t time.Time) CivilDateTime {
	return CivilDateTime{
		Date:     CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()},
		Clock:    ClockTime{Hour: t.Hour(), Minute: t.Minute()},
		HasClock: true,
	}
}

// At attaches a time-of-day to a date.
func (d CivilDate) At(c ClockTime) CivilDateTime {
	return CivilDateTime{Date: d, Clock: c, HasClock: true}
}

// DateOnly wraps a date as a clockless CivilDateTime.
func (d CivilDate) DateOnly() CivilDateTime {
	return CivilDateTime{Date: d}
}

// AddDays returns the date n calendar days later, crossing month and
// year boundaries via the standard library's date normalization.
func (d CivilDate) AddDays(n int) CivilDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ISO renders the date as YYYY-MM-DD.
func (d CivilDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Display renders the date the way booking screens show it,
// e.g. "Monday, December 1".
func (d CivilDate) Display() string {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Format("Monday, January 2")
}

// String renders the clock as zero-padded 24-hour HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Display renders the clock as 12-hour with suffix, e.g. "3:30 PM".
func (c ClockTime) Display() string {
	t := time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// Minutes returns the clock as minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

// Compare orders two civil date/times lexicographically on
// (year, month, day, hour, minute). A missing clock compares as 00:00.
// Returns -1, 0, or 1.
func Compare(a, b CivilDateTime) int {
	if c := compareInts(a.Date.Year, b.Date.Year); c != 0 {
		return c
	}
	if c := compareInts(int(a.Date.Month), int(b.Date.Month)); c != 0 {
		return c
	}
	if c := compareInts(a.Date.Day, b.Date.Day); c != 0 {
		return c
	}
	if c := compareInts(a.Clock.Hour, b.Clock.Hour); c != 0 {
		return c
	}
	return compareInts(a.Clock.Minute, b.Clock.Minute)
}

// SameCalendarDay reports whether both values fall on the same org-local date.
func SameCalendarDay(a, b CivilDateTime) bool {
	return a.Date == b.Date
}

// ParseDate parses a YYYY-MM-DD calendar date. Invalid calendar values
// (month 13, February 30) are rejected, not normalized.
func ParseDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: date %q", ErrParse, s)
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// ParseClock parses a wall-clock string. Accepts 24-hour "HH:MM" and
// 12-hour "H:MM AM"/"H:MM PM" (case-insensitive), the two shapes the
// upstream record sources emit.
func ParseClock(s string) (ClockTime, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ClockTime{}, fmt.Errorf("%w: empty time", ErrParse)
	}

	upper := strings.ToUpper(raw)
	pm := strings.HasSuffix(upper, "PM")
	am := strings.HasSuffix(upper, "AM")
	if am || pm {
		upper = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(upper, "PM"), "AM"))
	}

	parts := strings.Split(upper, ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: time %q", ErrParse, s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: time %q", ErrParse, s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: time %q", ErrParse, s)
	}

	if am || pm {
		if hour < 1 || hour > 12 {
			return ClockTime{}, fmt.Errorf("%w: time %q", ErrParse, s)
		}
		hour %= 12
		if pm {
			hour += 12
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: time %q", ErrParse, s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// ParseDateTime combines a date string and a time string into a single
// comparable civil value.
func ParseDateTime(dateStr, timeStr string) (CivilDateTime, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return CivilDateTime{}, err
	}
	c, err := ParseClock(timeStr)
	if err != nil {
		return CivilDateTime{}, err
	}
	return d.At(c), nil
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
