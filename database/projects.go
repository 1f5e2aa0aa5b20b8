package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"logwindow/models"
)

// ErrProjectNotFound is returned when no project matches an ID or API key.
var ErrProjectNotFound = errors.New("project not found")

const apiKeyPrefix = "lw_"

const projectColumns = `id, name, api_key, default_timezone, default_preset, created_at, updated_at`

// CreateProject inserts a project with a fresh API key. req is expected to
// be normalized already; blank defaults fall back to the column defaults.
func (db *DB) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	args := pgx.NamedArgs{
		"name":     req.Name,
		"api_key":  apiKeyPrefix + uuid.NewString(),
		"timezone": nullIfEmpty(req.DefaultTimezone),
		"preset":   nullIfEmpty(req.DefaultPreset),
	}

	project, err := db.queryProject(ctx, `
		INSERT INTO projects (name, api_key, default_timezone, default_preset)
		VALUES (@name, @api_key, COALESCE(@timezone, 'auto'), COALESCE(@preset, 'last_24_hours'))
		RETURNING `+projectColumns, args)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("CreateProject: id=%s name=%q timezone=%s preset=%s",
		project.ID, project.Name, project.DefaultTimezone, project.DefaultPreset)
	return project, nil
}

func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := db.queryProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", projectID, err)
	}
	return project, nil
}

// GetProjectByAPIKey authenticates a caller. An unknown key yields
// ErrProjectNotFound.
func (db *DB) GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	project, err := db.queryProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE api_key = $1`, apiKey)
	if err != nil {
		return nil, fmt.Errorf("invalid API key: %w", err)
	}
	return project, nil
}

func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Project])
	if err != nil {
		return nil, fmt.Errorf("failed to scan projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectDefaults replaces the time defaults every selection of the
// project starts from. Both values must already be normalized.
func (db *DB) UpdateProjectDefaults(ctx context.Context, projectID uuid.UUID, timezone, preset string) (*models.Project, error) {
	project, err := db.queryProject(ctx, `
		UPDATE projects
		SET default_timezone = @timezone, default_preset = @preset, updated_at = NOW()
		WHERE id = @id
		RETURNING `+projectColumns, pgx.NamedArgs{
		"id":       projectID,
		"timezone": timezone,
		"preset":   preset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}

	log.Printf("UpdateProjectDefaults: id=%s timezone=%s preset=%s", projectID, timezone, preset)
	return project, nil
}

func (db *DB) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
	}

	log.Printf("DeleteProject: id=%s", projectID)
	return nil
}

// queryProject runs a statement returning exactly one project row.
func (db *DB) queryProject(ctx context.Context, sql string, args ...any) (*models.Project, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	project, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.Project])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
