package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"logwindow/selection"
	"logwindow/timerange"
)

// Project is a tenant. Its API key authenticates every log call and its
// time defaults seed the time-range selection of anyone querying it.
type Project struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	APIKey          string    `json:"api_key" db:"api_key"`
	DefaultTimezone string    `json:"default_timezone" db:"default_timezone"`
	DefaultPreset   string    `json:"default_preset" db:"default_preset"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// SelectionDefaults maps the project's stored defaults onto the selection
// package. An "auto" project timezone defers to serverZone.
func (p Project) SelectionDefaults(serverZone *time.Location) selection.Defaults {
	return selection.Defaults{
		Preset: timerange.Preset(p.DefaultPreset),
		Auto:   timerange.LoadZone(p.DefaultTimezone, serverZone),
	}
}

type CreateProjectRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=255"`
	DefaultTimezone string `json:"default_timezone"`
	DefaultPreset   string `json:"default_preset"`
}

// Normalize fills in missing defaults and rejects unknown zones or presets.
func (r *CreateProjectRequest) Normalize() error {
	tz, preset, err := NormalizeTimeDefaults(r.DefaultTimezone, r.DefaultPreset)
	if err != nil {
		return err
	}
	r.DefaultTimezone, r.DefaultPreset = tz, preset
	return nil
}

// ProjectDefaultsRequest changes a project's time defaults. Nil fields keep
// their current value.
type ProjectDefaultsRequest struct {
	DefaultTimezone *string `json:"default_timezone"`
	DefaultPreset   *string `json:"default_preset"`
}

// Apply merges the request over p's current defaults and validates the result.
func (r ProjectDefaultsRequest) Apply(p Project) (tz, preset string, err error) {
	tz, preset = p.DefaultTimezone, p.DefaultPreset
	if r.DefaultTimezone != nil {
		tz = *r.DefaultTimezone
	}
	if r.DefaultPreset != nil {
		preset = *r.DefaultPreset
	}
	return NormalizeTimeDefaults(tz, preset)
}

// NormalizeTimeDefaults canonicalizes a project's timezone and preset.
// Blank values become "auto" and the default preset. Custom cannot be a
// project default since it carries no count.
func NormalizeTimeDefaults(tz, preset string) (string, string, error) {
	zone, ok := timerange.CanonicalZone(tz)
	if !ok {
		return "", "", fmt.Errorf("invalid default_timezone %q", tz)
	}

	if preset == "" {
		return zone, string(timerange.DefaultPreset), nil
	}
	p, ok := timerange.LookupPreset(preset)
	if !ok {
		return "", "", fmt.Errorf("invalid default_preset %q", preset)
	}
	return zone, string(p), nil
}

type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}
