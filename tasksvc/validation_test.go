package tasksvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestValidateNewTask(t *testing.T) {
	assert.NoError(t, ValidateNewTask(NewTask{Title: "t"}.Normalized()))
	assert.EqualError(t, ValidateNewTask(NewTask{}.Normalized()), "title is required")
	assert.EqualError(t, ValidateNewTask(NewTask{Title: "   "}.Normalized()), "title is required")
}

func TestValidateNewTaskTrims(t *testing.T) {
	task := NewTask{Title: "  buy milk  ", Description: " soon ", Category: " home "}.Normalized()

	assert.NoError(t, ValidateNewTask(task))
	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, "soon", task.Description)
	assert.Equal(t, "home", task.Category)
}

func TestValidateTaskUpdate(t *testing.T) {
	done := true

	assert.EqualError(t, ValidateTaskUpdate(TaskUpdate{}), "update requires at least one field")
	assert.NoError(t, ValidateTaskUpdate(TaskUpdate{Title: strptr("t")}.Normalized()))
	assert.NoError(t, ValidateTaskUpdate(TaskUpdate{IsComplete: &done}.Normalized()))
	assert.EqualError(t, ValidateTaskUpdate(TaskUpdate{Title: strptr("  ")}.Normalized()), "title must not be empty")
}
