package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func generateRun(t *testing.T, createdAt time.Time) Run {
	t.Helper()
	seed := uint64(1<<63 + 5) // Does not fit in an int64
	config := scheduler.DefaultConfig()
	config.Seed = &seed
	config.Population = 20
	config.MaxGenerations = 5
	config.Elitism = 2

	input := model.SampleInput()
	result, err := scheduler.New().Generate(context.Background(), input, config)
	require.NoError(t, err)

	return Run{Id: result.Id, CreatedAt: createdAt, Input: input, Config: config, Result: result}
}

func TestSaveAndGet(t *testing.T) {
	//** Arrange
	store := openStore(t)
	run := generateRun(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	//** Act
	require.NoError(t, store.Save(context.Background(), run))
	loaded, err := store.Get(context.Background(), run.Id)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, run.Id, loaded.Id)
	assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, run.Input, loaded.Input)
	assert.Equal(t, run.Config, loaded.Config)
	assert.Equal(t, run.Result, loaded.Result)
	assert.True(t, model.Verify(loaded.Result.Timetable, loaded.Input) == run.Result.Score.Feasible())
}

func TestGetUnknown(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	//** Arrange
	store := openStore(t)
	older := generateRun(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	newer := generateRun(t, time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC))
	require.NoError(t, store.Save(context.Background(), older))
	require.NoError(t, store.Save(context.Background(), newer))

	//** Act
	all, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	latest, err := store.List(context.Background(), 1)
	require.NoError(t, err)

	//** Assert
	require.Len(t, all, 2)
	assert.Equal(t, newer.Id, all[0].Id)
	assert.Equal(t, older.Id, all[1].Id)
	assert.Equal(t, newer.Result.Seed, all[0].Seed)
	assert.Equal(t, newer.Result.Score.Hard, all[0].Hard)
	assert.Equal(t, 15, all[0].Sessions)
	assert.Equal(t, string(newer.Result.Reason), all[0].Reason)

	require.Len(t, latest, 1)
	assert.Equal(t, newer.Id, latest[0].Id)
}

func TestOpenIsIdempotent(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "runs.db")
	first, err := Open(path)
	require.NoError(t, err)
	run := generateRun(t, time.Now())
	require.NoError(t, first.Save(context.Background(), run))
	require.NoError(t, first.Close())

	//** Act
	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	//** Assert
	var version int
	require.NoError(t, second.DB.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, 1, version)
	_, err = second.Get(context.Background(), run.Id)
	assert.NoError(t, err)
}
