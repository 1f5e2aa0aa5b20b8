package selection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logwindow/timerange"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRepository_LoadMissing(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_SaveLoadDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)
	ctx := context.Background()
	projectID := uuid.New()

	sel := timerange.Selection{
		Mode:              timerange.Absolute,
		AbsoluteStart:     timerange.Date{Year: 2025, Month: time.January, Day: 1},
		AbsoluteStartTime: timerange.TimeOfDay{Hour: 8, Minute: 15},
		AbsoluteEnd:       timerange.Date{Year: 2025, Month: time.January, Day: 3},
		AbsoluteEndTime:   timerange.TimeOfDay{Hour: 17},
		RelativePreset:    timerange.Last7Days,
		CustomCount:       3,
		CustomUnit:        timerange.Weeks,
		Timezone:          "Europe/Paris",
	}

	require.NoError(t, repo.Save(ctx, projectID, sel))
	assert.True(t, mr.Exists("logwindow:selection:"+projectID.String()))

	loaded, err := repo.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, sel, loaded)

	require.NoError(t, repo.Delete(ctx, projectID))
	assert.False(t, mr.Exists("logwindow:selection:"+projectID.String()))

	_, err = repo.Load(ctx, projectID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_TTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, time.Hour)
	ctx := context.Background()
	projectID := uuid.New()

	require.NoError(t, repo.Save(ctx, projectID, timerange.DefaultSelection()))
	assert.Equal(t, time.Hour, mr.TTL("logwindow:selection:"+projectID.String()))

	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists("logwindow:selection:"+projectID.String()))
}

func TestRedisRepository_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)
	projectID := uuid.New()

	require.NoError(t, mr.Set("logwindow:selection:"+projectID.String(), "{not json"))

	_, err := repo.Load(context.Background(), projectID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_DegradesToDefault(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)
	projectID := uuid.New()
	now := func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

	mr.Close()

	s := Open(context.Background(), repo, projectID, Defaults{Preset: timerange.Last1Hour, Auto: time.UTC}, now)
	assert.Equal(t, timerange.Last1Hour, s.Snapshot().RelativePreset)
	assert.Equal(t, time.Hour, s.Resolved().Duration())
}

func TestOpen_MissingUsesProjectDefaults(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)

	s := Open(context.Background(), repo, uuid.New(), Defaults{Preset: timerange.Last30Days}, nil)

	assert.Equal(t, timerange.Last30Days, s.Snapshot().RelativePreset)
	assert.Equal(t, 30*24*time.Hour, s.Resolved().Duration())
}

func TestOpen_LoadsStored(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisRepository(client, 0)
	ctx := context.Background()
	projectID := uuid.New()

	sel := timerange.DefaultSelection()
	sel.RelativePreset = timerange.Last15Minutes
	require.NoError(t, repo.Save(ctx, projectID, sel))

	s := Open(ctx, repo, projectID, Defaults{Preset: timerange.Last7Days, Auto: time.UTC}, nil)
	assert.Equal(t, 15*time.Minute, s.Resolved().Duration())
}
