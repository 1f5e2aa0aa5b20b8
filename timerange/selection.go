package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects which half of a Selection drives resolution.
type Mode string

const (
	Absolute Mode = "absolute"
	Relative Mode = "relative"
)

// ParseMode maps user input to a Mode.
// Anything other than "absolute" (case-insensitive) resolves as Relative.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Absolute)) {
		return Absolute
	}
	return Relative
}

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04:05"
)

// Date is a naive calendar date with no zone attached.
// It only becomes an instant once combined with a TimeOfDay and a location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls on an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// At combines the date with a time of day in loc.
func (d Date) At(tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, tod.Second, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText never fails. Text that is not a real calendar date decodes
// as the zero Date, which Resolve treats as a missing bound.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		parsed = Date{}
	}
	*d = parsed
	return nil
}

// TimeOfDay is the wall-clock component kept separately from a Date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOfDayOf returns the wall-clock time of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// ParseTimeOfDay accepts "15:04:05" or "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{timeOfDayLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q (expected HH:MM[:SS])", s)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// After reports whether t is strictly later in the day than o.
func (t TimeOfDay) After(o TimeOfDay) bool {
	return t.seconds() > o.seconds()
}

// nextSecond advances by one second, carrying into minutes and hours.
// The hour wraps modulo 24; there is no day to carry into.
func (t TimeOfDay) nextSecond() TimeOfDay {
	t.Second++
	if t.Second >= 60 {
		t.Second = 0
		t.Minute++
	}
	if t.Minute >= 60 {
		t.Minute = 0
		t.Hour++
	}
	t.Hour %= 24
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText never fails; unparsable text decodes as midnight.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		parsed = TimeOfDay{}
	}
	*t = parsed
	return nil
}

// Selection is the working state behind a time-range picker.
// The absolute fields are only consulted in Absolute mode and the
// custom fields only when RelativePreset is Custom.
type Selection struct {
	Mode              Mode      `json:"mode"`
	AbsoluteStart     Date      `json:"absolute_start"`
	AbsoluteStartTime TimeOfDay `json:"absolute_start_time"`
	AbsoluteEnd       Date      `json:"absolute_end"`
	AbsoluteEndTime   TimeOfDay `json:"absolute_end_time"`
	RelativePreset    Preset    `json:"relative_preset"`
	CustomCount       Count     `json:"custom_count"`
	CustomUnit        Unit      `json:"custom_unit"`
	Timezone          string    `json:"timezone"`
}

// DefaultSelection is the state a picker starts from and returns to on reset.
func DefaultSelection() Selection {
	return Selection{
		Mode:           Relative,
		RelativePreset: DefaultPreset,
		CustomCount:    1,
		CustomUnit:     Days,
		Timezone:       ZoneAuto,
	}
}
