package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"logwindow/timerange"
)

// ErrNotFound is returned by Load when a project has no stored selection.
var ErrNotFound = errors.New("selection not found")

// Repository persists one selection per project.
type Repository interface {
	// Load returns the stored selection, or ErrNotFound.
	Load(ctx context.Context, projectID uuid.UUID) (timerange.Selection, error)
	Save(ctx context.Context, projectID uuid.UUID, sel timerange.Selection) error
	Delete(ctx context.Context, projectID uuid.UUID) error
}

// RedisRepository stores selections as JSON values.
//
// Key structure:
//
//	logwindow:selection:{project_id} - selection JSON
type RedisRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisRepository wraps an existing client. A ttl of zero keeps
// selections until they are deleted.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{redis: client, ttl: ttl}
}

// Connect parses redisURL, pings the server and returns a repository.
func Connect(ctx context.Context, redisURL string, ttl time.Duration) (*RedisRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Println("Redis connection established")
	return NewRedisRepository(client, ttl), nil
}

func (r *RedisRepository) key(projectID uuid.UUID) string {
	return fmt.Sprintf("logwindow:selection:%s", projectID)
}

func (r *RedisRepository) Load(ctx context.Context, projectID uuid.UUID) (timerange.Selection, error) {
	data, err := r.redis.Get(ctx, r.key(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return timerange.Selection{}, ErrNotFound
	}
	if err != nil {
		return timerange.Selection{}, fmt.Errorf("failed to load selection: %w", err)
	}

	sel := timerange.DefaultSelection()
	if err := json.Unmarshal(data, &sel); err != nil {
		return timerange.Selection{}, fmt.Errorf("failed to decode selection: %w", err)
	}
	return sel, nil
}

func (r *RedisRepository) Save(ctx context.Context, projectID uuid.UUID, sel timerange.Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := r.redis.Set(ctx, r.key(projectID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	if err := r.redis.Del(ctx, r.key(projectID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.redis.Close()
}

// Open loads a project's selection into a fresh Store. A project with
// nothing stored starts from d. A repository failure is logged and also
// falls back to d, so a search is never blocked on selection storage.
func Open(ctx context.Context, repo Repository, projectID uuid.UUID, d Defaults, now func() time.Time) *Store {
	sel, err := repo.Load(ctx, projectID)
	switch {
	case errors.Is(err, ErrNotFound):
		return NewDefault(d, now)
	case err != nil:
		log.Printf("selection.Open: project=%s error=%v (using default)", projectID, err)
		return NewDefault(d, now)
	}
	return New(sel, d, now)
}
