package timerange

import (
	"encoding/json"
	"fmt"
	"time"
)

// isoMillis matches the ISO-8601 form log queries expect ("2025-01-01T00:00:00.000Z").
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// MinIncrement is the smallest step used when clamping an inverted range.
const MinIncrement = time.Second

// Resolved is a concrete UTC window. Start is never after End.
type Resolved struct {
	Start time.Time
	End   time.Time
}

// newResolved converts both bounds to UTC and clamps an End that precedes
// Start to Start plus MinIncrement.
func newResolved(start, end time.Time) Resolved {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		end = start.Add(MinIncrement)
	}
	return Resolved{Start: start, End: end}
}

// StartDate formats Start for a start_date query parameter.
func (r Resolved) StartDate() string {
	return r.Start.UTC().Format(isoMillis)
}

// EndDate formats End for an end_date query parameter.
func (r Resolved) EndDate() string {
	return r.End.UTC().Format(isoMillis)
}

func (r Resolved) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t lies within the inclusive window.
func (r Resolved) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r Resolved) String() string {
	return fmt.Sprintf("%s..%s", r.StartDate(), r.EndDate())
}

type resolvedJSON struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r Resolved) MarshalJSON() ([]byte, error) {
	return json.Marshal(resolvedJSON{StartDate: r.StartDate(), EndDate: r.EndDate()})
}

func (r *Resolved) UnmarshalJSON(b []byte) error {
	var raw resolvedJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339Nano, raw.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, raw.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	*r = newResolved(start, end)
	return nil
}

// Resolve maps a selection and a reference instant to a UTC window.
//
// now is supplied by the caller and read once, so start and end are derived
// from the same instant and repeated calls with equal inputs return equal
// ranges. auto is the location used for the "auto" timezone.
//
// Resolve never fails. Unknown presets resolve as DefaultPreset, custom
// counts below one become one, unknown units go back one day, and an
// absolute end before its start is clamped to start plus one second.
// Missing absolute dates default to now for the end and one day before
// the end for the start.
func Resolve(sel Selection, now time.Time, auto *time.Location) Resolved {
	loc := LoadZone(sel.Timezone, auto)
	now = now.In(loc)

	if ParseMode(string(sel.Mode)) == Absolute {
		return resolveAbsolute(sel, now, loc)
	}
	return newResolved(relativeStart(sel, now), now)
}

func relativeStart(sel Selection, now time.Time) time.Time {
	preset := ParsePreset(string(sel.RelativePreset))
	if preset == Custom {
		unit := NormalizeUnit(sel.CustomUnit)
		return CalculateRelativeDate(now, unit, NormalizeCount(int(sel.CustomCount)), Backward)
	}
	return presetRules[preset].start(now)
}

func resolveAbsolute(sel Selection, now time.Time, loc *time.Location) Resolved {
	end := now
	if !sel.AbsoluteEnd.IsZero() {
		end = sel.AbsoluteEnd.At(sel.AbsoluteEndTime, loc)
	}
	start := end.Add(-day)
	if !sel.AbsoluteStart.IsZero() {
		start = sel.AbsoluteStart.At(sel.AbsoluteStartTime, loc)
	}
	return newResolved(start, end)
}

// AdjustEndNotBeforeStart keeps an interactively edited absolute range
// ordered. When end falls on the same day as start and its time of day is
// not strictly later, the end time becomes start time plus one second,
// carrying into minutes and hours; the hour wraps at 24 without moving the
// date. An end date before the start date is first moved onto the start date.
func AdjustEndNotBeforeStart(start, end Date, startTime, endTime TimeOfDay) (Date, TimeOfDay) {
	if end.Before(start) {
		end = start
	}
	if end != start || endTime.After(startTime) {
		return end, endTime
	}
	return end, startTime.nextSecond()
}
