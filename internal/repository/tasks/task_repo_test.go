package tasks_test

import (
	"context"
	"testing"
	"time"

	"todoTracker/internal/database"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) (*database.DB, func() *tasks.Repository) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db, func() *tasks.Repository {
		return tasks.New(repository.NewSession(db.Gorm))
	}
}

func insert(t *testing.T, repo *tasks.Repository, list ...*task.Task) {
	t.Helper()
	for _, tk := range list {
		repo.Add(tk)
	}
	require.NoError(t, repo.Session().Commit(context.Background()))
}

func at(d int) time.Time {
	return time.Date(2025, 10, d, 9, 0, 0, 0, time.UTC)
}

func TestUpdate_ReplacesDetachedTask(t *testing.T) {
	ctx := context.Background()
	_, newRepo := openRepo(t)

	original := task.New(task.WithTitle("a"), task.WithDescription("d"), task.WithExpiration(at(16)), task.WithPercentage(40))
	insert(t, newRepo(), original)

	repo := newRepo()
	repo.Update(&task.Task{
		ID:             original.ID,
		Title:          "b",
		Description:    "e",
		ExpirationDate: at(20),
		Status:         task.StatusInProgress,
	})
	require.NoError(t, repo.Session().Commit(ctx))

	got, err := newRepo().Get(ctx, tasks.ByID(original.ID))
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
	assert.Equal(t, "e", got.Description)
	assert.Zero(t, got.CompletionPercentage)
	assert.True(t, got.ExpirationDate.Equal(at(20)))
}

func TestUpdate_MissingIDAffectsNothing(t *testing.T) {
	ctx := context.Background()
	_, newRepo := openRepo(t)
	insert(t, newRepo(), task.New(task.WithTitle("a"), task.WithDescription("d"), task.WithExpiration(at(16))))

	repo := newRepo()
	repo.Update(&task.Task{ID: 9999, Title: "ghost", Description: "x", Status: task.StatusInProgress, ExpirationDate: at(16)})
	require.NoError(t, repo.Session().Commit(ctx))

	all, err := newRepo().GetAll(ctx, repository.All)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Title)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	_, newRepo := openRepo(t)
	insert(t, newRepo(),
		task.New(task.WithTitle("a"), task.WithDescription("d"), task.WithExpiration(at(16))),
		task.New(task.WithTitle("b"), task.WithDescription("d"), task.WithExpiration(at(17)), task.WithPercentage(100)),
		task.New(task.WithTitle("c"), task.WithDescription("d"), task.WithExpiration(at(19))),
	)
	repo := newRepo()

	done, err := repo.GetAll(ctx, tasks.ByStatus(task.StatusDone))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "b", done[0].Title)

	window, err := repo.GetAll(ctx, tasks.ExpiringBetween(at(16), at(17)))
	require.NoError(t, err)
	assert.Len(t, window, 2)

	_, err = repo.Get(ctx, tasks.ByID(0))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
