package models

import (
	"errors"
	"time"
)

// DescriptionMaxLength is the longest description a task may carry
const DescriptionMaxLength = 100

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrDescriptionTooLong = errors.New("description must be at most 100 characters long")
)

// Task is a to-do item as stored and served
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskPatch holds the fields of a partial update. Nil means untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Validate checks the entity-level constraints that every write must satisfy.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTitleRequired
	}
	if len([]rune(t.Description)) > DescriptionMaxLength {
		return ErrDescriptionTooLong
	}
	return nil
}
