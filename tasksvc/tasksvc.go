package tasksvc

import (
	"errors"
	"time"
)

type Task struct {
	ID          uint64     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsComplete  bool       `json:"isComplete"`
	Category    string     `json:"category,omitempty"`
	UserID      uint64     `json:"userId" gorm:"index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask is a creation payload. The owner is taken from the verified
// caller, never from the payload.
type NewTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsComplete  *bool      `json:"isComplete"`
	Category    string     `json:"category"`
}

// TaskUpdate is a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsComplete  *bool      `json:"isComplete"`
	Category    *string    `json:"category"`
}

type TaskRepository interface {
	Create(task *Task) error
	Find(id uint64) (Task, error)
	FindAllByOwner(userID uint64) ([]Task, error)
	Update(id uint64, u TaskUpdate) (Task, error)
	Delete(id uint64) (bool, error)
	Complete(id uint64) (Task, error)
	DeleteAllByOwner(userID uint64) error
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskNotFound    = errors.New("task not found")
)
