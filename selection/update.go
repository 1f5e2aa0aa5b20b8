package selection

import (
	"net/url"

	"logwindow/timerange"
)

// Update is a partial change to a selection. Nil fields are left alone.
type Update struct {
	Mode        *string          `json:"mode,omitempty"`
	Preset      *string          `json:"relative_preset,omitempty"`
	CustomCount *timerange.Count `json:"custom_count,omitempty"`
	CustomUnit  *string          `json:"custom_unit,omitempty"`
	Timezone    *string          `json:"timezone,omitempty"`
	StartDate   *string          `json:"absolute_start,omitempty"`
	StartTime   *string          `json:"absolute_start_time,omitempty"`
	EndDate     *string          `json:"absolute_end,omitempty"`
	EndTime     *string          `json:"absolute_end_time,omitempty"`
}

// Query parameter names accepted by UpdateFromValues.
const (
	ParamMode     = "mode"
	ParamRange    = "range"
	ParamCount    = "count"
	ParamUnit     = "unit"
	ParamTimezone = "tz"
	ParamFromDate = "from_date"
	ParamFromTime = "from_time"
	ParamToDate   = "to_date"
	ParamToTime   = "to_time"
)

// UpdateFromValues reads selection query parameters.
func UpdateFromValues(v url.Values) Update {
	get := func(key string) *string {
		if !v.Has(key) {
			return nil
		}
		s := v.Get(key)
		return &s
	}

	u := Update{
		Mode:       get(ParamMode),
		Preset:     get(ParamRange),
		CustomUnit: get(ParamUnit),
		Timezone:   get(ParamTimezone),
		StartDate:  get(ParamFromDate),
		StartTime:  get(ParamFromTime),
		EndDate:    get(ParamToDate),
		EndTime:    get(ParamToTime),
	}
	if raw := get(ParamCount); raw != nil {
		c := timerange.Count(timerange.CoerceCount(*raw))
		u.CustomCount = &c
	}
	return u
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u == Update{}
}

func (u Update) touchesAbsolute() bool {
	return u.StartDate != nil || u.StartTime != nil || u.EndDate != nil || u.EndTime != nil
}

func (u Update) touchesCustom() bool {
	return u.CustomCount != nil || u.CustomUnit != nil
}

// Apply runs the update through the store's operations and returns the
// resulting window. Dates and times that do not parse keep their previous
// value. An explicit mode is applied last so it wins over the mode implied
// by preset, custom or absolute fields.
func Apply(s *Store, u Update) timerange.Resolved {
	if u.IsEmpty() {
		return s.Refresh()
	}

	if u.Timezone != nil {
		s.SetTimezone(*u.Timezone)
	}

	cur := s.Snapshot()

	if u.touchesAbsolute() {
		s.SetAbsolute(
			parseDateOr(u.StartDate, cur.AbsoluteStart),
			parseTimeOr(u.StartTime, cur.AbsoluteStartTime),
			parseDateOr(u.EndDate, cur.AbsoluteEnd),
			parseTimeOr(u.EndTime, cur.AbsoluteEndTime),
		)
	}

	if u.Preset != nil {
		s.SetPreset(timerange.Preset(*u.Preset))
	}

	if u.touchesCustom() {
		count, unit := int(cur.CustomCount), cur.CustomUnit
		if u.CustomCount != nil {
			count = int(*u.CustomCount)
		}
		if u.CustomUnit != nil {
			unit = timerange.Unit(*u.CustomUnit)
		}
		if u.Preset == nil || timerange.ParsePreset(*u.Preset) == timerange.Custom {
			s.SetCustom(count, unit)
		}
	}

	if u.Mode != nil {
		s.SetMode(timerange.Mode(*u.Mode))
	}

	return s.Resolved()
}

func parseDateOr(raw *string, fallback timerange.Date) timerange.Date {
	if raw == nil {
		return fallback
	}
	d, err := timerange.ParseDate(*raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseTimeOr(raw *string, fallback timerange.TimeOfDay) timerange.TimeOfDay {
	if raw == nil {
		return fallback
	}
	t, err := timerange.ParseTimeOfDay(*raw)
	if err != nil {
		return fallback
	}
	return t
}
