package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"logwindow/timerange"
)

const (
	columnID        = "id"
	columnProjectID = "project_id"
	columnLevel     = "level"
	columnMessage   = "message"
	columnSource    = "source"
	columnTimestamp = "timestamp"
)

// ErrInvalidTimeRange is returned for explicit start/end strings that are
// not RFC3339 or that are out of order.
var ErrInvalidTimeRange = errors.New("invalid time range")

// QueryBuilder accumulates AND-ed WHERE conditions. Values only ever travel
// as numbered arguments; column names are the only text formatted into SQL.
type QueryBuilder struct {
	conditions []string
	args       []any
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{conditions: []string{}, args: []any{}}
}

// Bind records v as the next argument and returns its placeholder.
func (qb *QueryBuilder) Bind(v any) string {
	qb.args = append(qb.args, v)
	return "$" + strconv.Itoa(len(qb.args))
}

func (qb *QueryBuilder) where(format string, a ...any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(format, a...))
}

func (qb *QueryBuilder) AddCondition(column string, value any) {
	qb.where("%s = %s", column, qb.Bind(value))
}

// AddTimeRange bounds column by RFC3339 strings, inclusive. An empty string
// leaves that side open.
func (qb *QueryBuilder) AddTimeRange(column, start, end string) error {
	from, err := parseBound("start_time", start)
	if err != nil {
		return err
	}
	to, err := parseBound("end_time", end)
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("%w: end_time %s is before start_time %s", ErrInvalidTimeRange, end, start)
	}

	if !from.IsZero() {
		qb.where("%s >= %s", column, qb.Bind(from))
	}
	if !to.IsZero() {
		qb.where("%s <= %s", column, qb.Bind(to))
	}
	return nil
}

// AddResolvedRange bounds column to an already resolved window, inclusive at both ends.
func (qb *QueryBuilder) AddResolvedRange(column string, window timerange.Resolved) {
	qb.where("%s >= %s", column, qb.Bind(window.Start))
	qb.where("%s <= %s", column, qb.Bind(window.End))
}

// AddWindow uses raw start/end strings when either is set and falls back to
// the resolved window otherwise. Neither present means no time bound.
func (qb *QueryBuilder) AddWindow(column, start, end string, window *timerange.Resolved) error {
	if start != "" || end != "" || window == nil {
		return qb.AddTimeRange(column, start, end)
	}
	qb.AddResolvedRange(column, *window)
	return nil
}

// AddFullTextSearch matches the message column against a tsquery and
// returns the query's placeholder so callers can rank by it.
func (qb *QueryBuilder) AddFullTextSearch(tsQuery string) string {
	ph := qb.Bind(tsQuery)
	qb.where("to_tsvector('english', %s) @@ to_tsquery('english', %s)", columnMessage, ph)
	return ph
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}

// NextArgNum is the number the next Bind will use.
func (qb *QueryBuilder) NextArgNum() int {
	return len(qb.args) + 1
}

func parseBound(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidTimeRange, name, err)
	}
	return t, nil
}
