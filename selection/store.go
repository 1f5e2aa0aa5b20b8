package selection

import (
	"strings"
	"sync"
	"time"

	"logwindow/timerange"
)

// Store owns one time-range selection and the window it currently resolves to.
// Every mutation reads the clock once and recomputes the window, so callers
// never observe a selection paired with a stale range.
type Store struct {
	mu       sync.Mutex
	sel      timerange.Selection
	resolved timerange.Resolved
	defaults Defaults
	now      func() time.Time
}

// Defaults describe a project's starting point: the preset a fresh or reset
// selection uses and the location its "auto" timezone resolves in.
type Defaults struct {
	Preset timerange.Preset
	Auto   *time.Location
}

// Selection is the selection a project starts from and returns to on reset.
func (d Defaults) Selection() timerange.Selection {
	sel := timerange.DefaultSelection()
	if d.Preset != "" {
		if p := timerange.ParsePreset(string(d.Preset)); p != timerange.Custom {
			sel.RelativePreset = p
		}
	}
	return sel
}

// New creates a Store seeded with sel. now is the clock; nil means time.Now.
func New(sel timerange.Selection, d Defaults, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{sel: sel, defaults: d, now: now}
	s.resolve()
	return s
}

// NewDefault creates a Store holding d's starting selection.
func NewDefault(d Defaults, now func() time.Time) *Store {
	return New(d.Selection(), d, now)
}

func (s *Store) resolve() {
	s.resolved = timerange.Resolve(s.sel, s.now(), s.defaults.Auto)
}

func (s *Store) mutate(fn func(sel *timerange.Selection)) timerange.Resolved {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.sel)
	s.resolve()
	return s.resolved
}

// Snapshot returns a copy of the current selection.
func (s *Store) Snapshot() timerange.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// State returns the selection together with the window it resolved to.
func (s *Store) State() (timerange.Selection, timerange.Resolved) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel, s.resolved
}

// Resolved returns the window computed at the last mutation or refresh.
func (s *Store) Resolved() timerange.Resolved {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// Refresh re-resolves against the clock. Call it immediately before a search
// so relative windows end at the moment the query runs.
func (s *Store) Refresh() timerange.Resolved {
	return s.mutate(func(*timerange.Selection) {})
}

func (s *Store) SetMode(mode timerange.Mode) timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		sel.Mode = timerange.ParseMode(string(mode))
	})
}

// SetPreset switches to relative mode with the given preset.
func (s *Store) SetPreset(p timerange.Preset) timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		sel.Mode = timerange.Relative
		sel.RelativePreset = timerange.ParsePreset(string(p))
	})
}

// SetCustom switches to a custom relative range. count is clamped into
// [1, timerange.MaxCount]. An unrecognized unit is kept as given and
// resolves one day back.
func (s *Store) SetCustom(count int, unit timerange.Unit) timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		sel.Mode = timerange.Relative
		sel.RelativePreset = timerange.Custom
		sel.CustomCount = timerange.Count(timerange.NormalizeCount(count))
		sel.CustomUnit = timerange.NormalizeUnit(unit)
	})
}

// SetAbsolute switches to absolute mode. The end is pushed past the start
// when both fall on the same day in the wrong order.
func (s *Store) SetAbsolute(start timerange.Date, startTime timerange.TimeOfDay, end timerange.Date, endTime timerange.TimeOfDay) timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		sel.Mode = timerange.Absolute
		sel.AbsoluteStart = start
		sel.AbsoluteStartTime = startTime
		sel.AbsoluteEnd, sel.AbsoluteEndTime = timerange.AdjustEndNotBeforeStart(start, end, startTime, endTime)
	})
}

func (s *Store) SetTimezone(name string) timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		name = strings.TrimSpace(name)
		if name == "" {
			name = timerange.ZoneAuto
		}
		sel.Timezone = name
	})
}

// Reset replaces the selection with the project's starting selection.
func (s *Store) Reset() timerange.Resolved {
	return s.mutate(func(sel *timerange.Selection) {
		*sel = s.defaults.Selection()
	})
}
