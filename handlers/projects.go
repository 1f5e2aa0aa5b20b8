package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"logwindow/database"
	"logwindow/models"
	"logwindow/selection"
)

// ProjectStore is the part of database.DB the project handlers use.
type ProjectStore interface {
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	UpdateProjectDefaults(ctx context.Context, projectID uuid.UUID, timezone, preset string) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

func CreateProject(db ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Normalize(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project, err := db.CreateProject(c.Request.Context(), req)
		if err != nil {
			log.Printf("CreateProject: name=%q error=%v", req.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func ListProjects(db ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := db.ListProjects(c.Request.Context())
		if err != nil {
			log.Printf("ListProjects: error=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}

		c.JSON(http.StatusOK, models.ProjectsResponse{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

func GetProject(db ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := projectParam(c)
		if !ok {
			return
		}

		project, err := db.GetProject(c.Request.Context(), projectID)
		if err != nil {
			writeProjectError(c, "GetProject", projectID, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

// UpdateProjectDefaults changes the timezone and preset new and reset
// selections of the project start from. Omitted fields keep their value.
func UpdateProjectDefaults(db ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := projectParam(c)
		if !ok {
			return
		}

		var req models.ProjectDefaultsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		current, err := db.GetProject(ctx, projectID)
		if err != nil {
			writeProjectError(c, "UpdateProjectDefaults", projectID, err)
			return
		}

		tz, preset, err := req.Apply(*current)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project, err := db.UpdateProjectDefaults(ctx, projectID, tz, preset)
		if err != nil {
			writeProjectError(c, "UpdateProjectDefaults", projectID, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

// DeleteProject removes the project and its logs, then drops its stored
// selection. A failure to drop the selection is logged; it expires anyway.
func DeleteProject(db ProjectStore, selections selection.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := projectParam(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := db.DeleteProject(ctx, projectID); err != nil {
			writeProjectError(c, "DeleteProject", projectID, err)
			return
		}

		if err := selections.Delete(ctx, projectID); err != nil {
			log.Printf("DeleteProject: project=%s selection_error=%v", projectID, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

func projectParam(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return uuid.Nil, false
	}
	return projectID, true
}

func writeProjectError(c *gin.Context, op string, projectID uuid.UUID, err error) {
	if errors.Is(err, database.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	log.Printf("%s: project=%s error=%v", op, projectID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "project lookup failed"})
}
