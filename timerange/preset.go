package timerange

import (
	"strings"
	"time"
)

// Preset names a fixed relative window ending at "now".
type Preset string

const (
	Last5Minutes  Preset = "last_5_minutes"
	Last15Minutes Preset = "last_15_minutes"
	Last30Minutes Preset = "last_30_minutes"
	Last1Hour     Preset = "last_1_hour"
	Last3Hours    Preset = "last_3_hours"
	Last6Hours    Preset = "last_6_hours"
	Last12Hours   Preset = "last_12_hours"
	Last24Hours   Preset = "last_24_hours"
	Last2Days     Preset = "last_2_days"
	Last7Days     Preset = "last_7_days"
	Last14Days    Preset = "last_14_days"
	Last30Days    Preset = "last_30_days"
	Last90Days    Preset = "last_90_days"
	LastQuarter   Preset = "last_quarter"
	YearToDate    Preset = "year_to_date"
	LastYear      Preset = "last_year"
	Last10Years   Preset = "last_10_years"

	// Custom defers to the selection's count and unit.
	Custom Preset = "custom"

	DefaultPreset = Last24Hours
)

const day = 24 * time.Hour

// presetRule describes how a preset derives its start from now.
// Exactly one of offset, months or yearToDate is set.
type presetRule struct {
	label      string
	offset     time.Duration
	months     int
	yearToDate bool
}

// last_year and last_10_years are fixed 365/3650 day offsets while
// last_quarter moves the calendar month; custom month/year units are
// always calendar-aware.
var presetRules = map[Preset]presetRule{
	Last5Minutes:  {label: "Last 5 minutes", offset: 5 * time.Minute},
	Last15Minutes: {label: "Last 15 minutes", offset: 15 * time.Minute},
	Last30Minutes: {label: "Last 30 minutes", offset: 30 * time.Minute},
	Last1Hour:     {label: "Last 1 hour", offset: time.Hour},
	Last3Hours:    {label: "Last 3 hours", offset: 3 * time.Hour},
	Last6Hours:    {label: "Last 6 hours", offset: 6 * time.Hour},
	Last12Hours:   {label: "Last 12 hours", offset: 12 * time.Hour},
	Last24Hours:   {label: "Last 24 hours", offset: day},
	Last2Days:     {label: "Last 2 days", offset: 2 * day},
	Last7Days:     {label: "Last 7 days", offset: 7 * day},
	Last14Days:    {label: "Last 14 days", offset: 14 * day},
	Last30Days:    {label: "Last 30 days", offset: 30 * day},
	Last90Days:    {label: "Last 90 days", offset: 90 * day},
	LastQuarter:   {label: "Last quarter", months: 3},
	YearToDate:    {label: "Year to date", yearToDate: true},
	LastYear:      {label: "Last year", offset: 365 * day},
	Last10Years:   {label: "Last 10 years", offset: 3650 * day},
}

var presetOrder = []Preset{
	Last5Minutes, Last15Minutes, Last30Minutes,
	Last1Hour, Last3Hours, Last6Hours, Last12Hours, Last24Hours,
	Last2Days, Last7Days, Last14Days, Last30Days, Last90Days,
	LastQuarter, YearToDate, LastYear, Last10Years,
}

// PresetInfo is a preset with its display label.
type PresetInfo struct {
	Preset Preset `json:"preset"`
	Label  string `json:"label"`
}

// Presets returns every fixed preset in display order, followed by Custom.
func Presets() []PresetInfo {
	out := make([]PresetInfo, 0, len(presetOrder)+1)
	for _, p := range presetOrder {
		out = append(out, PresetInfo{Preset: p, Label: presetRules[p].label})
	}
	return append(out, PresetInfo{Preset: Custom, Label: "Custom"})
}

// ParsePreset maps user input to a known preset. Unknown names fall
// back to DefaultPreset so a malformed picker still yields a window.
func ParsePreset(s string) Preset {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if p == Custom {
		return Custom
	}
	if fixed, ok := LookupPreset(string(p)); ok {
		return fixed
	}
	return DefaultPreset
}

// LookupPreset reports whether s names one of the fixed presets.
// Custom is not a fixed preset.
func LookupPreset(s string) (Preset, bool) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	_, ok := presetRules[p]
	return p, ok
}

// Label returns the human label, or the raw name for unknown presets.
func (p Preset) Label() string {
	if p == Custom {
		return "Custom"
	}
	if r, ok := presetRules[p]; ok {
		return r.label
	}
	return string(p)
}

// start computes the preset's start relative to now. now must already be
// in the selection's zone so year_to_date lands on local midnight.
func (r presetRule) start(now time.Time) time.Time {
	switch {
	case r.yearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case r.months > 0:
		return addMonths(now, -r.months)
	default:
		return now.Add(-r.offset)
	}
}
