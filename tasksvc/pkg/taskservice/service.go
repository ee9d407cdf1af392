package taskservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/usersvc"
)

type Service interface {
	CreateTask(ctx context.Context, ownerID uint64, t tasksvc.NewTask) (tasksvc.Task, error)
	Tasks(ctx context.Context, ownerID uint64) ([]tasksvc.Task, error)
	TasksByUser(ctx context.Context, userID uint64) ([]tasksvc.Task, error)
	Task(ctx context.Context, taskID uint64) (tasksvc.Task, error)
	UpdateTask(ctx context.Context, taskID uint64, u tasksvc.TaskUpdate) (tasksvc.Task, error)
	DeleteTask(ctx context.Context, taskID uint64) (bool, error)
	CompleteTask(ctx context.Context, taskID uint64) (tasksvc.Task, error)
}

func New(tasks tasksvc.TaskRepository, users usersvc.UserRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(tasks, users)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks tasksvc.TaskRepository
	users usersvc.UserRepository
}

func NewBasicService(tasks tasksvc.TaskRepository, users usersvc.UserRepository) Service {
	return &basicService{tasks: tasks, users: users}
}

func (s *basicService) CreateTask(_ context.Context, ownerID uint64, t tasksvc.NewTask) (tasksvc.Task, error) {
	if ownerID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	t = t.Normalized()
	if err := tasksvc.ValidateNewTask(t); err != nil {
		return tasksvc.Task{}, err
	}

	task := tasksvc.Task{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Category:    t.Category,
		UserID:      ownerID,
	}
	if t.IsComplete != nil {
		task.IsComplete = *t.IsComplete
	}

	if err := s.tasks.Create(&task); err != nil {
		return tasksvc.Task{}, err
	}

	return task, nil
}

func (s *basicService) Tasks(_ context.Context, ownerID uint64) ([]tasksvc.Task, error) {
	if ownerID == 0 {
		return nil, tasksvc.ErrInvalidArgument
	}
	return s.tasks.FindAllByOwner(ownerID)
}

// TasksByUser lists another user's tasks, failing when that user does
// not exist.
func (s *basicService) TasksByUser(_ context.Context, userID uint64) ([]tasksvc.Task, error) {
	if userID == 0 {
		return nil, tasksvc.ErrInvalidArgument
	}

	if _, err := s.users.Find(userID); err != nil {
		return nil, err
	}

	return s.tasks.FindAllByOwner(userID)
}

func (s *basicService) Task(_ context.Context, taskID uint64) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	return s.tasks.Find(taskID)
}

func (s *basicService) UpdateTask(_ context.Context, taskID uint64, u tasksvc.TaskUpdate) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	u = u.Normalized()
	if err := tasksvc.ValidateTaskUpdate(u); err != nil {
		return tasksvc.Task{}, err
	}

	return s.tasks.Update(taskID, u)
}

func (s *basicService) DeleteTask(_ context.Context, taskID uint64) (bool, error) {
	if taskID == 0 {
		return false, tasksvc.ErrInvalidArgument
	}
	return s.tasks.Delete(taskID)
}

// CompleteTask is the dedicated false-to-true transition. It bypasses
// field validation and is idempotent.
func (s *basicService) CompleteTask(_ context.Context, taskID uint64) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	return s.tasks.Complete(taskID)
}
