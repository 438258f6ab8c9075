package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want error
	}{
		{"ok", Task{Title: "a"}, nil},
		{"missing title", Task{}, ErrTitleRequired},
		{"description at limit", Task{Title: "a", Description: strings.Repeat("x", 100)}, nil},
		{"description too long", Task{Title: "a", Description: strings.Repeat("x", 101)}, ErrDescriptionTooLong},
		{"multibyte counted as characters", Task{Title: "a", Description: strings.Repeat("é", 100)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Validate())
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	title := "new"
	done := true
	task := Task{Title: "old", Description: "keep"}

	TaskPatch{Title: &title, Completed: &done}.Apply(&task)

	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "keep", task.Description)
	assert.True(t, task.Completed)
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Completed: &done}.Empty())
}
