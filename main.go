package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"logwindow/config"
	"logwindow/database"
	"logwindow/handlers"
	"logwindow/middleware"
	"logwindow/selection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Create context with timeout for initial connections
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	selections, err := selection.Connect(ctx, cfg.RedisURL, cfg.SelectionTTL)
	if err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}
	defer selections.Close()

	windows := handlers.Windows{
		Repo: selections,
		Auto: cfg.DefaultTimezone,
		Now:  time.Now,
	}

	r := gin.Default()

	r.GET("/health", handlers.HealthCheck)
	r.GET("/timerange/presets", handlers.ListPresets)

	r.POST("/projects", handlers.CreateProject(db))
	r.GET("/projects", handlers.ListProjects(db))
	r.GET("/projects/:id", handlers.GetProject(db))
	r.PATCH("/projects/:id/defaults", handlers.UpdateProjectDefaults(db))
	r.DELETE("/projects/:id", handlers.DeleteProject(db, selections))

	authed := r.Group("/", middleware.AuthRequired(db))
	authed.POST("/logs", handlers.IngestLogs(db, time.Now))
	authed.GET("/logs", handlers.GetLogs(db, windows))
	authed.POST("/logs/search", handlers.SearchLogs(db, windows))
	authed.POST("/timerange/resolve", handlers.ResolveTimeRange(windows))
	authed.GET("/selection", handlers.GetSelection(windows))
	authed.PATCH("/selection", handlers.UpdateSelection(windows))
	authed.DELETE("/selection", handlers.ResetSelection(windows))

	log.Printf("Server starting on %s (default timezone %s)", cfg.Addr(), cfg.DefaultTimezone)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("Server stopped:", err)
	}
}
