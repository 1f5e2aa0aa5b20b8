package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"logwindow/models"
)

// ErrInvalidSearchQuery wraps every rejection from ParseSearchQuery.
var ErrInvalidSearchQuery = errors.New("invalid search query")

const (
	minSearchLength = 3
	maxSearchLength = 1000
	minTermLength   = 2
)

// searchCleaner drops quoting and maps tsquery operators to spaces so user
// text can never change the structure of the generated tsquery.
var searchCleaner = strings.NewReplacer(
	`"`, "", "'", "", "(", "", ")", "",
	"&", " ", "|", " ", "!", " ", ":", " ", "<", " ", ">", " ", "*", " ",
)

// ParseSearchQuery turns free text into a tsquery that ANDs every term of
// at least two characters, lowercased: `Database "timeout"` becomes
// "database & timeout".
func ParseSearchQuery(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case len(raw) < minSearchLength:
		return "", fmt.Errorf("%w: must be at least %d characters", ErrInvalidSearchQuery, minSearchLength)
	case len(raw) > maxSearchLength:
		return "", fmt.Errorf("%w: too long (max %d characters)", ErrInvalidSearchQuery, maxSearchLength)
	}

	var terms []string
	for _, word := range strings.Fields(searchCleaner.Replace(raw)) {
		if len(word) >= minTermLength {
			terms = append(terms, strings.ToLower(word))
		}
	}
	if len(terms) == 0 {
		return "", fmt.Errorf("%w: no valid search terms", ErrInvalidSearchQuery)
	}
	return strings.Join(terms, " & "), nil
}

// SearchLogs runs a ranked full-text search over a project's log messages
// within the same level, source and time bounds QueryLogs applies. Results
// carry Rank and are ordered by rank, then newest first.
func (db *DB) SearchLogs(ctx context.Context, projectID uuid.UUID, req models.SearchRequest) ([]models.LogEntry, int64, error) {
	start := time.Now()
	defer func() {
		log.Printf("SearchLogs: duration=%v project=%s query=%q window=%s",
			time.Since(start), projectID, req.Query, describeWindow(req.Window))
	}()

	tsQuery, err := ParseSearchQuery(req.Query)
	if err != nil {
		return nil, 0, err
	}

	return db.runLogQuery(ctx, logQuery{
		projectID: projectID,
		level:     req.Level,
		source:    req.Source,
		startTime: req.StartTime,
		endTime:   req.EndTime,
		window:    req.Window,
		tsQuery:   tsQuery,
		limit:     req.Limit,
		offset:    req.Offset,
	})
}
