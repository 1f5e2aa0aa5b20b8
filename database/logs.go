package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"logwindow/models"
	"logwindow/timerange"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// BatchInsertError reports which entry of a batch the database rejected.
type BatchInsertError struct {
	FailedIndex int
	TotalLogs   int
	Err         error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("failed to insert log at index %d/%d: %v", e.FailedIndex, e.TotalLogs, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// InsertLogsBatch sends every entry in one pgx batch. The first rejected
// entry is reported as a *BatchInsertError. An empty slice is a no-op.
func (db *DB) InsertLogsBatch(ctx context.Context, logs []models.LogEntry) error {
	if len(logs) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		log.Printf("InsertLogsBatch: duration=%v count=%d", time.Since(start), len(logs))
	}()

	const insert = `
		INSERT INTO logs (id, project_id, level, message, source, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	batch := &pgx.Batch{}
	for _, entry := range logs {
		batch.Queue(insert, entry.ID, entry.ProjectID, entry.Level, entry.Message, entry.Source, entry.Timestamp)
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	for i := range logs {
		if _, err := results.Exec(); err != nil {
			return &BatchInsertError{FailedIndex: i, TotalLogs: len(logs), Err: err}
		}
	}
	return nil
}

// QueryLogs lists a project's logs newest first. A non-empty params.Search
// turns the listing into a ranked full-text search. Explicit
// StartTime/EndTime bound the listing when set; otherwise params.Window does.
func (db *DB) QueryLogs(ctx context.Context, projectID uuid.UUID, params models.QueryParams) ([]models.LogEntry, int64, error) {
	if params.Search != "" {
		return db.SearchLogs(ctx, projectID, models.SearchRequest{
			Query:     params.Search,
			Level:     params.Level,
			Source:    params.Source,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
			Limit:     params.Limit,
			Offset:    params.Offset,
			Window:    params.Window,
		})
	}

	start := time.Now()
	defer func() {
		log.Printf("QueryLogs: duration=%v project=%s level=%s source=%s window=%s",
			time.Since(start), projectID, params.Level, params.Source, describeWindow(params.Window))
	}()

	return db.runLogQuery(ctx, logQuery{
		projectID: projectID,
		level:     params.Level,
		source:    params.Source,
		startTime: params.StartTime,
		endTime:   params.EndTime,
		window:    params.Window,
		limit:     params.Limit,
		offset:    params.Offset,
	})
}

// logQuery is the filter shared by listings and searches. A non-empty
// tsQuery adds a full-text match and orders by rank before timestamp.
type logQuery struct {
	projectID uuid.UUID
	level     string
	source    string
	startTime string
	endTime   string
	window    *timerange.Resolved
	tsQuery   string
	limit     int
	offset    int
}

func (q logQuery) ranked() bool {
	return q.tsQuery != ""
}

// build renders the statement and its arguments. Every caller value is a
// placeholder argument.
func (q logQuery) build() (string, []any, error) {
	qb := NewQueryBuilder()
	qb.AddCondition(columnProjectID, q.projectID)

	columns := []string{columnID, columnProjectID, columnLevel, columnMessage, columnSource, columnTimestamp}
	order := columnTimestamp + " DESC"
	if q.ranked() {
		ph := qb.AddFullTextSearch(q.tsQuery)
		columns = append(columns, fmt.Sprintf("ts_rank(to_tsvector('english', %s), to_tsquery('english', %s)) AS rank", columnMessage, ph))
		order = "rank DESC, " + order
	}

	if q.level != "" {
		qb.AddCondition(columnLevel, q.level)
	}
	if q.source != "" {
		qb.AddCondition(columnSource, q.source)
	}
	if err := qb.AddWindow(columnTimestamp, q.startTime, q.endTime, q.window); err != nil {
		return "", nil, err
	}

	where := qb.WhereClause()
	limit, offset := pageBounds(q.limit, q.offset)
	sql := fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total_count FROM logs %s ORDER BY %s LIMIT %s OFFSET %s",
		strings.Join(columns, ", "), where, order, qb.Bind(limit), qb.Bind(offset))

	return sql, qb.Args(), nil
}

func (db *DB) runLogQuery(ctx context.Context, q logQuery) ([]models.LogEntry, int64, error) {
	sql, args, err := q.build()
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	return collectLogs(rows, q.ranked())
}

// collectLogs scans rows produced by logQuery.build. The total is the same
// on every row; an empty result leaves it at zero.
func collectLogs(rows pgx.Rows, ranked bool) ([]models.LogEntry, int64, error) {
	var total int64
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LogEntry, error) {
		var entry models.LogEntry
		dest := []any{&entry.ID, &entry.ProjectID, &entry.Level, &entry.Message, &entry.Source, &entry.Timestamp}
		if ranked {
			entry.Rank = new(float64)
			dest = append(dest, entry.Rank)
		}
		dest = append(dest, &total)
		return entry, row.Scan(dest...)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan logs: %w", err)
	}
	return logs, total, nil
}

// pageBounds applies the default page size, caps it, and floors the offset at zero.
func pageBounds(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func describeWindow(w *timerange.Resolved) string {
	if w == nil {
		return "none"
	}
	return w.String()
}
