package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"logwindow/database"
	"logwindow/models"
)

// ProjectLookup resolves an API key to its project.
type ProjectLookup interface {
	GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error)
}

// AuthRequired authenticates "Authorization: Bearer <api_key>". On success
// the gin context carries "project_id" and "project"; the latter brings the
// project's time defaults to the selection handlers.
func AuthRequired(db ProjectLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		scheme, apiKey, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || apiKey == "" || strings.Contains(apiKey, " ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		project, err := db.GetProjectByAPIKey(c.Request.Context(), apiKey)
		switch {
		case errors.Is(err, database.ErrProjectNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		case err != nil:
			log.Printf("AuthRequired: error=%v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication unavailable"})
			return
		}

		c.Set("project_id", project.ID)
		c.Set("project", project)
		c.Next()
	}
}
