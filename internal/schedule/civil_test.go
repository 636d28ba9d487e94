package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CivilDate
		wantErr bool
	}{
		{name: "plain date", input: "2025-12-01", want: CivilDate{2025, time.December, 1}},
		{name: "leading space", input: " 2025-01-31 ", want: CivilDate{2025, time.January, 31}},
		{name: "leap day", input: "2024-02-29", want: CivilDate{2024, time.February, 29}},
		{name: "invalid leap day", input: "2025-02-29", wantErr: true},
		{name: "month thirteen", input: "2025-13-01", wantErr: true},
		{name: "not a date", input: "tomorrow", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockTime
		wantErr bool
	}{
		{name: "24h morning", input: "09:00", want: ClockTime{9, 0}},
		{name: "24h afternoon", input: "16:30", want: ClockTime{16, 30}},
		{name: "12h PM", input: "3:30 PM", want: ClockTime{15, 30}},
		{name: "12h AM", input: "9:00 AM", want: ClockTime{9, 0}},
		{name: "12h noon", input: "12:00 PM", want: ClockTime{12, 0}},
		{name: "12h midnight", input: "12:00 AM", want: ClockTime{0, 0}},
		{name: "lowercase suffix", input: "4:15 pm", want: ClockTime{16, 15}},
		{name: "suffix without space", input: "10:30AM", want: ClockTime{10, 30}},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minute out of range", input: "10:61", wantErr: true},
		{name: "12h hour zero", input: "0:30 PM", wantErr: true},
		{name: "garbage", input: "soonish", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	base := CivilDate{2025, time.November, 23}.At(ClockTime{12, 0})

	tests := []struct {
		name string
		a    CivilDateTime
		b    CivilDateTime
		want int
	}{
		{name: "equal", a: base, b: base, want: 0},
		{name: "earlier day", a: CivilDate{2025, time.November, 22}.At(ClockTime{23, 59}), b: base, want: -1},
		{name: "later year", a: CivilDate{2026, time.January, 1}.At(ClockTime{0, 0}), b: base, want: 1},
		{name: "same day earlier clock", a: CivilDate{2025, time.November, 23}.At(ClockTime{11, 59}), b: base, want: -1},
		{name: "same day later minute", a: CivilDate{2025, time.November, 23}.At(ClockTime{12, 1}), b: base, want: 1},
		{name: "missing clock compares as midnight", a: CivilDate{2025, time.November, 23}.DateOnly(), b: base, want: -1},
		{name: "month boundary", a: CivilDate{2025, time.October, 31}.At(ClockTime{16, 30}), b: base, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestSameCalendarDay(t *testing.T) {
	d := CivilDate{2025, time.November, 23}
	assert.True(t, SameCalendarDay(d.At(ClockTime{0, 0}), d.At(ClockTime{23, 59})))
	assert.False(t, SameCalendarDay(d.DateOnly(), d.AddDays(1).DateOnly()))
}

func TestAddDays_CrossesBoundaries(t *testing.T) {
	tests := []struct {
		name string
		from CivilDate
		n    int
		want CivilDate
	}{
		{name: "within month", from: CivilDate{2025, time.November, 23}, n: 1, want: CivilDate{2025, time.November, 24}},
		{name: "month rollover", from: CivilDate{2025, time.November, 30}, n: 1, want: CivilDate{2025, time.December, 1}},
		{name: "year rollover", from: CivilDate{2025, time.December, 31}, n: 1, want: CivilDate{2026, time.January, 1}},
		{name: "leap february", from: CivilDate{2024, time.February, 28}, n: 1, want: CivilDate{2024, time.February, 29}},
		{name: "two weeks", from: CivilDate{2025, time.December, 25}, n: 14, want: CivilDate{2026, time.January, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddDays(tt.n))
		})
	}
}

func TestFromTime_UsesInstantLocation(t *testing.T) {
	loc := OrgLocation()
	instant := time.Date(2025, time.November, 23, 12, 45, 59, 0, loc)

	got := FromTime(instant)
	assert.Equal(t, CivilDate{2025, time.November, 23}, got.Date)
	assert.Equal(t, ClockTime{12, 45}, got.Clock)
	assert.True(t, got.HasClock)
}

func TestFormatting(t *testing.T) {
	d := CivilDate{2025, time.December, 1}
	assert.Equal(t, "2025-12-01", d.ISO())
	assert.Equal(t, "Monday, December 1", d.Display())

	assert.Equal(t, "09:00", ClockTime{9, 0}.String())
	assert.Equal(t, "16:30", ClockTime{16, 30}.String())
	assert.Equal(t, "9:00 AM", ClockTime{9, 0}.Display())
	assert.Equal(t, "4:30 PM", ClockTime{16, 30}.Display())
	assert.Equal(t, "12:00 AM", ClockTime{0, 0}.Display())
}
