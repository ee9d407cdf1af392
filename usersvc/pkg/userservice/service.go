package userservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/authsvc/pkg/authservice"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/usersvc"
)

// Profile is a user together with the tasks owned by that user. The
// relationship is computed at read time, never stored.
type Profile struct {
	usersvc.User
	Tasks []tasksvc.Task `json:"tasks"`
}

type Service interface {
	Users(ctx context.Context) ([]usersvc.User, error)
	User(ctx context.Context, id uint64) (Profile, error)
	UpdateUser(ctx context.Context, id uint64, u usersvc.UserUpdate) (usersvc.User, error)
	DeleteUser(ctx context.Context, id uint64) (bool, error)
}

func New(users usersvc.UserRepository, tasks tasksvc.TaskRepository, h authservice.Hasher, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, tasks, h)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users  usersvc.UserRepository
	tasks  tasksvc.TaskRepository
	hasher authservice.Hasher
}

func NewBasicService(users usersvc.UserRepository, tasks tasksvc.TaskRepository, h authservice.Hasher) Service {
	return &basicService{users: users, tasks: tasks, hasher: h}
}

func (s *basicService) Users(_ context.Context) ([]usersvc.User, error) {
	return s.users.FindAll()
}

func (s *basicService) User(_ context.Context, id uint64) (Profile, error) {
	if id == 0 {
		return Profile{}, usersvc.ErrInvalidArgument
	}

	user, err := s.users.Find(id)
	if err != nil {
		return Profile{}, err
	}

	tasks, err := s.tasks.FindAllByOwner(id)
	if err != nil {
		return Profile{}, err
	}
	if tasks == nil {
		tasks = []tasksvc.Task{}
	}

	return Profile{User: user, Tasks: tasks}, nil
}

func (s *basicService) UpdateUser(_ context.Context, id uint64, u usersvc.UserUpdate) (usersvc.User, error) {
	if id == 0 {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	u = u.Normalized()
	if err := usersvc.ValidateUserUpdate(u); err != nil {
		return usersvc.User{}, err
	}

	if u.Password != nil {
		hash, err := s.hasher.Hash(*u.Password)
		if err != nil {
			return usersvc.User{}, err
		}
		u.Password = &hash
	}

	return s.users.Update(id, u)
}

// DeleteUser removes the user and every task the user owns. Tasks go
// second; a failure there leaves tasks without an owner, which reads
// treat as absent.
func (s *basicService) DeleteUser(_ context.Context, id uint64) (bool, error) {
	if id == 0 {
		return false, usersvc.ErrInvalidArgument
	}

	if _, err := s.users.Delete(id); err != nil {
		return false, err
	}

	if err := s.tasks.DeleteAllByOwner(id); err != nil {
		return false, err
	}

	return true, nil
}
