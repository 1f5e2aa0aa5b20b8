package timerange

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Unit is the unit of a custom relative range.
type Unit string

const (
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
	Weeks   Unit = "weeks"
	Months  Unit = "months"
	Years   Unit = "years"
)

var units = []Unit{Minutes, Hours, Days, Weeks, Months, Years}

// Units lists the supported custom units.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// ParseUnit accepts plural or singular names ("day", "days").
// Unknown input falls back to Days.
func ParseUnit(s string) Unit {
	if u, ok := lookupUnit(s); ok {
		return u
	}
	return Days
}

// NormalizeUnit canonicalizes singular and mixed-case names and passes
// unknown units through untouched, so CalculateRelativeDate can apply its
// one-day fallback to them.
func NormalizeUnit(u Unit) Unit {
	if known, ok := lookupUnit(string(u)); ok {
		return known
	}
	return u
}

func lookupUnit(s string) (Unit, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range units {
		if s == string(u) || s+"s" == string(u) {
			return u, true
		}
	}
	return "", false
}

// Direction says whether CalculateRelativeDate adds or subtracts.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// ParseDirection defaults to Backward for anything but "forward".
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Forward)) {
		return Forward
	}
	return Backward
}

// MaxCount caps custom counts. Even in minutes it reaches back thousands
// of years, and keeps month and day arithmetic far from integer overflow.
const MaxCount = math.MaxInt32

// CoerceCount parses a custom count typed by a user. Fractions are
// truncated; empty, non-numeric and non-positive input become 1 and
// anything above MaxCount becomes MaxCount.
func CoerceCount(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || f < 1 {
		return 1
	}
	if f >= MaxCount {
		return MaxCount
	}
	return int(f)
}

// NormalizeCount clamps n into [1, MaxCount].
func NormalizeCount(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxCount:
		return MaxCount
	}
	return n
}

// Count is a custom count as it arrives from a client. It decodes from a
// JSON number or string and never fails: unusable input becomes 1.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*c = Count(CoerceCount(s))
			return nil
		}
	}
	*c = Count(CoerceCount(string(b)))
	return nil
}

// CalculateRelativeDate moves base by count units in the given direction.
//
// Minutes, hours, days and weeks are exact durations. Months and years move
// the calendar field in base's location, preserving time of day; when the
// target month is shorter the day is clamped to its last day, so
// March 31 minus one month is the last day of February.
//
// An unknown unit yields one day before base regardless of count. Counts
// beyond MaxCount in either direction are saturated.
func CalculateRelativeDate(base time.Time, unit Unit, count int, direction Direction) time.Time {
	n := int64(count)
	if n > MaxCount {
		n = MaxCount
	} else if n < -MaxCount {
		n = -MaxCount
	}
	if direction != Forward {
		n = -n
	}

	switch unit {
	case Minutes:
		return addExact(base, n, time.Minute)
	case Hours:
		return addExact(base, n, time.Hour)
	case Days:
		return addExact(base, n, day)
	case Weeks:
		return addExact(base, n*7, day)
	case Months:
		return addMonths(base, int(n))
	case Years:
		return addMonths(base, int(n*12))
	default:
		return base.Add(-day)
	}
}

// addExact adds n fixed-length units to t. Offsets that do not fit in a
// time.Duration are split into whole UTC days, which are exactly 24h long,
// plus a remainder.
func addExact(t time.Time, n int64, unit time.Duration) time.Time {
	if limit := int64(math.MaxInt64 / unit); n <= limit && n >= -limit {
		return t.Add(time.Duration(n) * unit)
	}
	perDay := int64(day / unit)
	days, rem := n/perDay, n%perDay
	return t.UTC().AddDate(0, 0, int(days)).Add(time.Duration(rem) * unit).In(t.Location())
}

// addMonths shifts t by n calendar months, clamping the day of month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	loc := t.Location()

	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, loc)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
