package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"logwindow/database"
	"logwindow/models"
	"logwindow/selection"
)

// LogStore is the part of database.DB the log handlers use.
type LogStore interface {
	InsertLogsBatch(ctx context.Context, logs []models.LogEntry) error
	QueryLogs(ctx context.Context, projectID uuid.UUID, params models.QueryParams) ([]models.LogEntry, int64, error)
	SearchLogs(ctx context.Context, projectID uuid.UUID, req models.SearchRequest) ([]models.LogEntry, int64, error)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func IngestLogs(db LogStore, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var logs []models.LogEntry
		if err := c.ShouldBindJSON(&logs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		projectID := currentProjectID(c)
		for i := range logs {
			logs[i].ID = uuid.New()
			logs[i].ProjectID = projectID
			if logs[i].Timestamp.IsZero() {
				logs[i].Timestamp = now()
			}
		}

		if err := db.InsertLogsBatch(c.Request.Context(), logs); err != nil {
			var batchErr *database.BatchInsertError
			if errors.As(err, &batchErr) {
				log.Printf("IngestLogs: project=%s failed_index=%d error=%v", projectID, batchErr.FailedIndex, batchErr.Err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":        "failed to insert logs",
					"failed_index": batchErr.FailedIndex,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert logs"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "logs stored",
			"count":   len(logs),
		})
	}
}

// GetLogs lists logs. Without explicit start_time/end_time the project's
// stored selection, overridden by any selection query parameters, is
// resolved against the clock right before the query runs.
func GetLogs(db LogStore, w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.QueryParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		projectID := currentProjectID(c)
		if !params.HasExplicitRange() {
			window := w.resolve(c, projectID, selection.UpdateFromValues(c.Request.URL.Query()))
			params.Window = &window
		}

		start := time.Now()
		logs, total, err := db.QueryLogs(c.Request.Context(), projectID, params)
		if err != nil {
			writeQueryError(c, "failed to query logs", err)
			return
		}
		queryTime := time.Since(start).Milliseconds()

		c.JSON(http.StatusOK, models.LogsResponse{
			Logs:        logs,
			Total:       total,
			Limit:       params.Limit,
			Offset:      params.Offset,
			HasMore:     int64(params.Offset+params.Limit) < total,
			Window:      params.Window,
			QueryTimeMs: &queryTime,
		})
	}
}

func SearchLogs(db LogStore, w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		projectID := currentProjectID(c)
		if !req.HasExplicitRange() {
			var update selection.Update
			if req.Selection != nil {
				update = *req.Selection
			}
			window := w.resolve(c, projectID, update)
			req.Window = &window
		}

		start := time.Now()
		logs, total, err := db.SearchLogs(c.Request.Context(), projectID, req)
		if err != nil {
			writeQueryError(c, "failed to search logs", err)
			return
		}
		queryTime := time.Since(start).Milliseconds()

		c.JSON(http.StatusOK, models.LogsResponse{
			Logs:        logs,
			Total:       total,
			Limit:       req.Limit,
			Offset:      req.Offset,
			HasMore:     int64(req.Offset+req.Limit) < total,
			Window:      req.Window,
			QueryTimeMs: &queryTime,
		})
	}
}

// writeQueryError reports caller mistakes as 400 and anything else as 500.
func writeQueryError(c *gin.Context, msg string, err error) {
	if errors.Is(err, database.ErrInvalidSearchQuery) || errors.Is(err, database.ErrInvalidTimeRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func currentProject(c *gin.Context) *models.Project {
	if v, ok := c.Get("project"); ok {
		if p, ok := v.(*models.Project); ok {
			return p
		}
	}
	return nil
}

func currentProjectID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("project_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
