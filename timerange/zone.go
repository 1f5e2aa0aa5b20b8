package timerange

import (
	"strings"
	"time"
)

const (
	// ZoneAuto defers to the caller-supplied default location.
	ZoneAuto = "auto"
	ZoneUTC  = "UTC"
)

// LoadZone resolves a selection's timezone name. "auto" and the empty
// string use auto (UTC when auto is nil); names that fail to load fall
// back to UTC rather than failing the resolution.
func LoadZone(name string, auto *time.Location) *time.Location {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || strings.EqualFold(name, ZoneAuto):
		if auto == nil {
			return time.UTC
		}
		return auto
	case strings.EqualFold(name, ZoneUTC):
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CanonicalZone normalizes a timezone name for storage. "auto" and "UTC"
// are matched case-insensitively and an empty name means "auto". ok is
// false when the name is neither and does not load as an IANA zone.
func CanonicalZone(name string) (string, bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || strings.EqualFold(name, ZoneAuto):
		return ZoneAuto, true
	case strings.EqualFold(name, ZoneUTC):
		return ZoneUTC, true
	}
	if _, err := time.LoadLocation(name); err != nil {
		return name, false
	}
	return name, true
}
