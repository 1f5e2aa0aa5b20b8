package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"logwindow/models"
	"logwindow/selection"
	"logwindow/timerange"
)

// Windows carries what handlers need to turn a project's stored selection
// into a query window. Auto is the server zone, used when a project's
// default timezone is "auto".
type Windows struct {
	Repo selection.Repository
	Auto *time.Location
	Now  func() time.Time
}

func (w Windows) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// defaults returns the authenticated project's time defaults, or the
// server-wide ones when the request carries no project.
func (w Windows) defaults(c *gin.Context) selection.Defaults {
	if project := currentProject(c); project != nil {
		return project.SelectionDefaults(w.Auto)
	}
	return selection.Defaults{Auto: w.Auto}
}

func (w Windows) open(c *gin.Context, projectID uuid.UUID) *selection.Store {
	return selection.Open(c.Request.Context(), w.Repo, projectID, w.defaults(c), w.Now)
}

// resolve applies a transient update to the stored selection and resolves
// it. The stored selection is left unchanged.
func (w Windows) resolve(c *gin.Context, projectID uuid.UUID, u selection.Update) timerange.Resolved {
	return selection.Apply(w.open(c, projectID), u)
}

func ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, models.PresetsResponse{
		Presets: timerange.Presets(),
		Units:   timerange.Units(),
		Default: timerange.DefaultPreset,
	})
}

func ResolveTimeRange(w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		defaults := w.defaults(c)
		req := models.ResolveRequest{Selection: defaults.Selection()}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := w.now()
		if req.Now != nil {
			now = *req.Now
		}

		c.JSON(http.StatusOK, models.SelectionResponse{
			Selection: req.Selection,
			Resolved:  timerange.Resolve(req.Selection, now, defaults.Auto),
		})
	}
}

func GetSelection(w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, resolved := w.open(c, currentProjectID(c)).State()
		c.JSON(http.StatusOK, models.SelectionResponse{
			Selection: sel,
			Resolved:  resolved,
		})
	}
}

func UpdateSelection(w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update selection.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		projectID := currentProjectID(c)
		store := w.open(c, projectID)
		selection.Apply(store, update)
		sel, resolved := store.State()

		if err := w.Repo.Save(ctx, projectID, sel); err != nil {
			log.Printf("UpdateSelection: project=%s error=%v", projectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save selection"})
			return
		}

		c.JSON(http.StatusOK, models.SelectionResponse{
			Selection: sel,
			Resolved:  resolved,
		})
	}
}

func ResetSelection(w Windows) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		projectID := currentProjectID(c)

		if err := w.Repo.Delete(ctx, projectID); err != nil {
			log.Printf("ResetSelection: project=%s error=%v", projectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset selection"})
			return
		}

		sel, resolved := selection.NewDefault(w.defaults(c), w.Now).State()
		c.JSON(http.StatusOK, models.SelectionResponse{
			Selection: sel,
			Resolved:  resolved,
		})
	}
}
