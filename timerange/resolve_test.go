package timerange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func relativeSelection(p Preset) Selection {
	sel := DefaultSelection()
	sel.RelativePreset = p
	sel.Timezone = ZoneUTC
	return sel
}

func TestResolve_PresetsEndAtNow(t *testing.T) {
	for _, info := range Presets() {
		t.Run(string(info.Preset), func(t *testing.T) {
			r := Resolve(relativeSelection(info.Preset), refNow, nil)

			assert.True(t, r.End.Equal(refNow), "end should be now")
			assert.False(t, r.Start.After(r.End), "start must not be after end")
			assert.Equal(t, time.UTC, r.Start.Location())
		})
	}
}

func TestResolve_FixedPresetOffsets(t *testing.T) {
	tests := []struct {
		preset Preset
		offset time.Duration
	}{
		{Last5Minutes, 5 * time.Minute},
		{Last15Minutes, 15 * time.Minute},
		{Last30Minutes, 30 * time.Minute},
		{Last1Hour, time.Hour},
		{Last3Hours, 3 * time.Hour},
		{Last6Hours, 6 * time.Hour},
		{Last12Hours, 12 * time.Hour},
		{Last24Hours, 24 * time.Hour},
		{Last2Days, 48 * time.Hour},
		{Last7Days, 7 * 24 * time.Hour},
		{Last14Days, 14 * 24 * time.Hour},
		{Last30Days, 30 * 24 * time.Hour},
		{Last90Days, 90 * 24 * time.Hour},
		{LastYear, 365 * 24 * time.Hour},
		{Last10Years, 3650 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r := Resolve(relativeSelection(tt.preset), refNow, nil)
			assert.Equal(t, tt.offset, r.Duration())
		})
	}
}

func TestResolve_LastQuarterMovesCalendarMonths(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "mid month",
			now:      refNow,
			expected: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "crosses year boundary",
			now:      time.Date(2025, 2, 10, 8, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 11, 10, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "clamps to shorter month",
			now:      time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(relativeSelection(LastQuarter), tt.now, nil)
			assert.True(t, tt.expected.Equal(r.Start), "got %s", r.Start)
			assert.NotEqual(t, 90*24*time.Hour, r.Duration())
		})
	}
}

func TestResolve_YearToDate(t *testing.T) {
	r := Resolve(relativeSelection(YearToDate), refNow, nil)

	assert.Equal(t, "2025-01-01T00:00:00.000Z", r.StartDate())
	assert.Equal(t, "2025-06-15T12:00:00.000Z", r.EndDate())
}

func TestResolve_YearToDateInZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sel := relativeSelection(YearToDate)
	sel.Timezone = "America/New_York"
	r := Resolve(sel, refNow, nil)

	assert.True(t, time.Date(2025, 1, 1, 0, 0, 0, 0, ny).Equal(r.Start))
	assert.Equal(t, "2025-01-01T05:00:00.000Z", r.StartDate())
}

func TestResolve_UnknownPresetUsesDefault(t *testing.T) {
	r := Resolve(relativeSelection(Preset("last_fortnight")), refNow, nil)
	assert.Equal(t, 24*time.Hour, r.Duration())
}

func TestResolve_Custom(t *testing.T) {
	tests := []struct {
		name     string
		count    Count
		unit     Unit
		expected time.Time
	}{
		{
			name:     "hours",
			count:    12,
			unit:     Hours,
			expected: refNow.Add(-12 * time.Hour),
		},
		{
			name:     "weeks",
			count:    2,
			unit:     Weeks,
			expected: refNow.Add(-14 * 24 * time.Hour),
		},
		{
			name:     "months",
			count:    4,
			unit:     Months,
			expected: time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "years",
			count:    2,
			unit:     Years,
			expected: time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero count behaves as one",
			count:    0,
			unit:     Days,
			expected: refNow.Add(-24 * time.Hour),
		},
		{
			name:     "negative count behaves as one",
			count:    -3,
			unit:     Minutes,
			expected: refNow.Add(-time.Minute),
		},
		{
			name:     "singular unit name",
			count:    3,
			unit:     Unit("hour"),
			expected: refNow.Add(-3 * time.Hour),
		},
		{
			name:     "mixed case unit name",
			count:    2,
			unit:     Unit("Weeks"),
			expected: refNow.Add(-14 * 24 * time.Hour),
		},
		{
			name:     "unknown unit goes back one day whatever the count",
			count:    5,
			unit:     Unit("fortnights"),
			expected: refNow.Add(-24 * time.Hour),
		},
		{
			name:     "huge minute count does not wrap",
			count:    1_000_000_000,
			unit:     Minutes,
			expected: time.Unix(refNow.Unix()-60_000_000_000, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := relativeSelection(Custom)
			sel.CustomCount = tt.count
			sel.CustomUnit = tt.unit

			r := Resolve(sel, refNow, nil)
			assert.True(t, tt.expected.Equal(r.Start), "got %s", r.Start)
			assert.True(t, refNow.Equal(r.End))
		})
	}
}

func TestResolve_CustomNonNumericCount(t *testing.T) {
	sel := relativeSelection(Custom)
	sel.CustomCount = Count(CoerceCount("NaN"))
	sel.CustomUnit = Days

	want := relativeSelection(Custom)
	want.CustomCount = 1
	want.CustomUnit = Days

	assert.Equal(t, Resolve(want, refNow, nil), Resolve(sel, refNow, nil))
}

func TestResolve_AbsoluteClampsInvertedRange(t *testing.T) {
	sel := Selection{
		Mode:              Absolute,
		AbsoluteStart:     Date{2025, time.January, 1},
		AbsoluteStartTime: TimeOfDay{10, 0, 0},
		AbsoluteEnd:       Date{2025, time.January, 1},
		AbsoluteEndTime:   TimeOfDay{9, 0, 0},
		Timezone:          ZoneUTC,
	}

	r := Resolve(sel, refNow, nil)

	assert.Equal(t, "2025-01-01T10:00:00.000Z", r.StartDate())
	assert.Equal(t, "2025-01-01T10:00:01.000Z", r.EndDate())
}

func TestResolve_AbsoluteInZone(t *testing.T) {
	sel := Selection{
		Mode:              Absolute,
		AbsoluteStart:     Date{2025, time.March, 1},
		AbsoluteStartTime: TimeOfDay{8, 0, 0},
		AbsoluteEnd:       Date{2025, time.March, 2},
		AbsoluteEndTime:   TimeOfDay{17, 30, 0},
		Timezone:          "Asia/Tokyo",
	}

	r := Resolve(sel, refNow, nil)

	assert.Equal(t, "2025-02-28T23:00:00.000Z", r.StartDate())
	assert.Equal(t, "2025-03-02T08:30:00.000Z", r.EndDate())
}

func TestResolve_AbsoluteMissingDates(t *testing.T) {
	r := Resolve(Selection{Mode: Absolute, Timezone: ZoneUTC}, refNow, nil)

	assert.True(t, refNow.Equal(r.End))
	assert.Equal(t, 24*time.Hour, r.Duration())
}

func TestResolve_AutoZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	sel := relativeSelection(YearToDate)
	sel.Timezone = ZoneAuto

	r := Resolve(sel, time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC), tokyo)

	// 2024-12-31T20:00Z is already 2025 in Tokyo.
	assert.Equal(t, "2024-12-31T15:00:00.000Z", r.StartDate())
}

func TestResolve_Idempotent(t *testing.T) {
	sel := relativeSelection(Custom)
	sel.CustomCount = 5
	sel.CustomUnit = Months

	first, err := json.Marshal(Resolve(sel, refNow, nil))
	require.NoError(t, err)
	second, err := json.Marshal(Resolve(sel, refNow, nil))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolved_JSON(t *testing.T) {
	r := Resolve(relativeSelection(Last1Hour), refNow, nil)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2025-06-15T11:00:00.000Z","end_date":"2025-06-15T12:00:00.000Z"}`, string(data))

	var decoded Resolved
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, r.Start.Equal(decoded.Start))
	assert.True(t, r.End.Equal(decoded.End))
}

func TestResolved_Contains(t *testing.T) {
	r := Resolve(relativeSelection(Last1Hour), refNow, nil)

	assert.True(t, r.Contains(refNow))
	assert.True(t, r.Contains(refNow.Add(-30*time.Minute)))
	assert.False(t, r.Contains(refNow.Add(time.Second)))
	assert.False(t, r.Contains(refNow.Add(-2*time.Hour)))
}

func TestAdjustEndNotBeforeStart(t *testing.T) {
	jan1 := Date{2025, time.January, 1}
	jan2 := Date{2025, time.January, 2}

	tests := []struct {
		name      string
		start     Date
		end       Date
		startTime TimeOfDay
		endTime   TimeOfDay
		wantDate  Date
		wantTime  TimeOfDay
	}{
		{
			name:      "end already after start",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{9, 0, 0},
			endTime:   TimeOfDay{10, 0, 0},
			wantDate:  jan1,
			wantTime:  TimeOfDay{10, 0, 0},
		},
		{
			name:      "end before start",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{10, 0, 0},
			endTime:   TimeOfDay{9, 0, 0},
			wantDate:  jan1,
			wantTime:  TimeOfDay{10, 0, 1},
		},
		{
			name:      "equal times",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{10, 0, 0},
			endTime:   TimeOfDay{10, 0, 0},
			wantDate:  jan1,
			wantTime:  TimeOfDay{10, 0, 1},
		},
		{
			name:      "seconds carry into minutes",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{10, 14, 59},
			endTime:   TimeOfDay{8, 0, 0},
			wantDate:  jan1,
			wantTime:  TimeOfDay{10, 15, 0},
		},
		{
			name:      "minutes carry into hours",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{10, 59, 59},
			endTime:   TimeOfDay{10, 59, 59},
			wantDate:  jan1,
			wantTime:  TimeOfDay{11, 0, 0},
		},
		{
			name:      "hour wraps without moving the date",
			start:     jan1,
			end:       jan1,
			startTime: TimeOfDay{23, 59, 59},
			endTime:   TimeOfDay{1, 0, 0},
			wantDate:  jan1,
			wantTime:  TimeOfDay{0, 0, 0},
		},
		{
			name:      "later day is untouched",
			start:     jan1,
			end:       jan2,
			startTime: TimeOfDay{10, 0, 0},
			endTime:   TimeOfDay{9, 0, 0},
			wantDate:  jan2,
			wantTime:  TimeOfDay{9, 0, 0},
		},
		{
			name:      "earlier day moves onto start",
			start:     jan2,
			end:       jan1,
			startTime: TimeOfDay{10, 0, 0},
			endTime:   TimeOfDay{12, 0, 0},
			wantDate:  jan2,
			wantTime:  TimeOfDay{12, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDate, gotTime := AdjustEndNotBeforeStart(tt.start, tt.end, tt.startTime, tt.endTime)
			assert.Equal(t, tt.wantDate, gotDate)
			assert.Equal(t, tt.wantTime, gotTime)
		})
	}
}

func TestResolve_WrappedAdjustmentStillOrdered(t *testing.T) {
	start := Date{2025, time.January, 1}
	startTime := TimeOfDay{23, 59, 59}
	end, endTime := AdjustEndNotBeforeStart(start, start, startTime, TimeOfDay{})

	r := Resolve(Selection{
		Mode:              Absolute,
		AbsoluteStart:     start,
		AbsoluteStartTime: startTime,
		AbsoluteEnd:       end,
		AbsoluteEndTime:   endTime,
		Timezone:          ZoneUTC,
	}, refNow, nil)

	assert.Equal(t, "2025-01-02T00:00:00.000Z", r.EndDate())
}
