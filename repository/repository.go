package repository

import (
	"context"
	"errors"

	"github.com/biosecret/go-tasks/models"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// TaskFilter narrows List. A nil Completed returns every task.
type TaskFilter struct {
	Completed *bool
}

// TaskRepository persists Task documents.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// Update applies patch and returns the stored entity after the update.
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists User documents. Usernames are unique.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
