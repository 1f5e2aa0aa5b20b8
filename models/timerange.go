package models

import (
	"time"

	"logwindow/timerange"
)

// ResolveRequest asks for a selection to be resolved. Now pins the
// reference instant; when absent the server clock is used.
type ResolveRequest struct {
	Selection timerange.Selection `json:"selection"`
	Now       *time.Time          `json:"now,omitempty"`
}

// SelectionResponse pairs a selection with the window it resolves to.
type SelectionResponse struct {
	Selection timerange.Selection `json:"selection"`
	Resolved  timerange.Resolved  `json:"resolved"`
}

// PresetsResponse lists the choices a time-range picker offers.
type PresetsResponse struct {
	Presets []timerange.PresetInfo `json:"presets"`
	Units   []timerange.Unit       `json:"units"`
	Default timerange.Preset       `json:"default"`
}
