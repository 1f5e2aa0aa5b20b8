package models

import (
	"time"

	"github.com/google/uuid"

	"logwindow/selection"
	"logwindow/timerange"
)

type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Level     string    `json:"level" binding:"required"`
	Message   string    `json:"message" binding:"required"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Rank      *float64  `json:"rank,omitempty"` // Only populated for search results
}

// QueryParams filters a log listing. An explicit StartTime/EndTime pair
// wins; otherwise handlers resolve the project's time-range selection into Window.
type QueryParams struct {
	Level     string `form:"level"`
	Source    string `form:"source"`
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
	Search    string `form:"search"`

	Window *timerange.Resolved `form:"-" json:"-"`
}

// HasExplicitRange reports whether the caller passed raw RFC3339 bounds.
func (p QueryParams) HasExplicitRange() bool {
	return p.StartTime != "" || p.EndTime != ""
}

type SearchRequest struct {
	Query     string `json:"query" binding:"required,min=3"`
	Level     string `json:"level"`
	Source    string `json:"source"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`

	// Selection overrides fields of the stored selection for this search only.
	Selection *selection.Update `json:"selection,omitempty"`

	Window *timerange.Resolved `json:"-"`
}

func (r SearchRequest) HasExplicitRange() bool {
	return r.StartTime != "" || r.EndTime != ""
}

type LogsResponse struct {
	Logs        []LogEntry          `json:"logs"`
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
	HasMore     bool                `json:"has_more"`
	Window      *timerange.Resolved `json:"window,omitempty"`
	QueryTimeMs *int64              `json:"query_time_ms,omitempty"`
}
