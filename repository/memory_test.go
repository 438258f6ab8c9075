package repository

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-tasks/models"
	"github.com/biosecret/go-tasks/utils"
)

func newTask(title string, completed bool) *models.Task {
	return &models.Task{Title: title, Completed: completed, CreatedAt: time.Now().UTC()}
}

func TestMemoryTaskRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()

	task := newTask("buy milk", false)
	require.NoError(t, repo.Create(ctx, task))
	assert.True(t, utils.IsValidID(task.ID))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, *task, *found)

	_, err = repo.FindByID(ctx, utils.GenerateID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTaskRepository_CreateRejectsInvalid(t *testing.T) {
	repo := NewMemoryTaskRepository()
	err := repo.Create(context.Background(), newTask("", false))
	assert.ErrorIs(t, err, models.ErrTitleRequired)
}

func TestMemoryTaskRepository_ListFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	require.NoError(t, repo.Create(ctx, newTask("a", false)))
	require.NoError(t, repo.Create(ctx, newTask("b", true)))
	require.NoError(t, repo.Create(ctx, newTask("c", false)))

	all, err := repo.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Title, all[1].Title, all[2].Title})

	done := true
	completed, err := repo.List(ctx, TaskFilter{Completed: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].Title)
}

func TestMemoryTaskRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	task := newTask("draft", false)
	require.NoError(t, repo.Create(ctx, task))

	done := true
	desc := "ship it"
	updated, err := repo.Update(ctx, task.ID, models.TaskPatch{Description: &desc, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, "ship it", updated.Description)
	assert.True(t, updated.Completed)

	empty := ""
	_, err = repo.Update(ctx, task.ID, models.TaskPatch{Title: &empty})
	assert.ErrorIs(t, err, models.ErrTitleRequired)

	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", stored.Title)

	_, err = repo.Update(ctx, utils.GenerateID(), models.TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTaskRepository_UpdateDoesNotKeepCallerID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	task := newTask("a", false)
	require.NoError(t, repo.Create(ctx, task))

	// a string aliasing a buffer the caller reuses, like a request param
	buf := []byte(task.ID)
	id := unsafe.String(&buf[0], len(buf))

	done := true
	_, err := repo.Update(ctx, id, models.TaskPatch{Completed: &done})
	require.NoError(t, err)
	copy(buf, "zzzzzzzzzzzzzzzzzzzzzzzz")

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found.Completed)
}

func TestMemoryTaskRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	task := newTask("gone", false)
	require.NoError(t, repo.Create(ctx, task))

	require.NoError(t, repo.Delete(ctx, task.ID))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)

	all, err := repo.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryUserRepository_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	first := &models.User{Username: "alice", Password: "hash"}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := repo.Create(ctx, &models.User{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "hash", found.Password)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}
