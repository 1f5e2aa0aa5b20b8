package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logwindow/models"
	"logwindow/timerange"
)

func TestSearchLogs_WithinResolvedWindow(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	project := seedProject(t, db, "search")

	now := time.Now().UTC().Truncate(time.Second)
	seedLogs(t, db, project.ID, now.Add(-5*time.Minute), "error", "db", "database connection timeout", "cache warmed")
	seedLogs(t, db, project.ID, now.Add(-5*time.Hour), "error", "db", "database timeout during migration")

	tests := []struct {
		name   string
		preset timerange.Preset
		query  string
		want   int
	}{
		{name: "last hour keeps recent match", preset: timerange.Last1Hour, query: "database timeout", want: 1},
		{name: "last day reaches older match", preset: timerange.Last24Hours, query: "database timeout", want: 2},
		{name: "stemmed term", preset: timerange.Last24Hours, query: "timeouts", want: 2},
		{name: "all terms must match", preset: timerange.Last24Hours, query: "connection migration", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, total, err := db.SearchLogs(ctx, project.ID, models.SearchRequest{
				Query:  tt.query,
				Window: resolvedFor(tt.preset, now),
			})
			require.NoError(t, err)
			assert.Len(t, logs, tt.want)
			assert.Equal(t, int64(tt.want), total)
			for _, entry := range logs {
				require.NotNil(t, entry.Rank)
				assert.Greater(t, *entry.Rank, 0.0)
			}
		})
	}
}

func TestSearchLogs_RanksDenserMatchesFirst(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	project := seedProject(t, db, "ranking")

	now := time.Now().UTC().Truncate(time.Second)
	seedLogs(t, db, project.ID, now, "warning", "", "disk usage high")
	seedLogs(t, db, project.ID, now.Add(-30*time.Minute), "error", "", "disk failure: disk unreadable, disk offline")

	logs, _, err := db.SearchLogs(ctx, project.ID, models.SearchRequest{
		Query:  "disk",
		Window: resolvedFor(timerange.Last1Hour, now),
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "error", logs[0].Level, "rank wins over recency")
	assert.GreaterOrEqual(t, *logs[0].Rank, *logs[1].Rank)
}

func TestSearchLogs_FiltersAndExplicitRange(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	project := seedProject(t, db, "filtered search")

	now := time.Now().UTC().Truncate(time.Second)
	seedLogs(t, db, project.ID, now.Add(-2*time.Hour), "error", "worker", "queue stalled")
	seedLogs(t, db, project.ID, now.Add(-2*time.Hour), "info", "worker", "queue drained")

	logs, _, err := db.SearchLogs(ctx, project.ID, models.SearchRequest{
		Query:     "queue",
		Level:     "error",
		StartTime: now.Add(-3 * time.Hour).Format(time.RFC3339),
		EndTime:   now.Format(time.RFC3339),
		Window:    resolvedFor(timerange.Last1Hour, now),
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "queue stalled", logs[0].Message)
}

func TestSearchLogs_RejectsQueryBeforeTouchingDatabase(t *testing.T) {
	db := integrationDB(t)
	project := seedProject(t, db, "bad query")

	_, _, err := db.SearchLogs(context.Background(), project.ID, models.SearchRequest{Query: "!!"})
	assert.ErrorIs(t, err, ErrInvalidSearchQuery)

	results, _, err := db.QueryLogs(context.Background(), project.ID, models.QueryParams{Search: "a b c"})
	assert.ErrorIs(t, err, ErrInvalidSearchQuery)
	assert.Nil(t, results)
}
