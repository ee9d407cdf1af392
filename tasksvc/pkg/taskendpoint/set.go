package taskendpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/tasksvc/pkg/taskservice"
)

type Set struct {
	CreateTaskEndpoint   endpoint.Endpoint
	TasksEndpoint        endpoint.Endpoint
	TasksByUserEndpoint  endpoint.Endpoint
	TaskEndpoint         endpoint.Endpoint
	UpdateTaskEndpoint   endpoint.Endpoint
	DeleteTaskEndpoint   endpoint.Endpoint
	CompleteTaskEndpoint endpoint.Endpoint
}

func New(svc taskservice.Service, logger log.Logger) Set {
	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = MakeCreateTaskEndpoint(svc)
		createTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateTask"))(createTaskEndpoint)
	}
	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = MakeTasksEndpoint(svc)
		tasksEndpoint = LoggingMiddleware(log.With(logger, "method", "Tasks"))(tasksEndpoint)
	}
	var tasksByUserEndpoint endpoint.Endpoint
	{
		tasksByUserEndpoint = MakeTasksByUserEndpoint(svc)
		tasksByUserEndpoint = LoggingMiddleware(log.With(logger, "method", "TasksByUser"))(tasksByUserEndpoint)
	}
	var taskEndpoint endpoint.Endpoint
	{
		taskEndpoint = MakeTaskEndpoint(svc)
		taskEndpoint = LoggingMiddleware(log.With(logger, "method", "Task"))(taskEndpoint)
	}
	var updateTaskEndpoint endpoint.Endpoint
	{
		updateTaskEndpoint = MakeUpdateTaskEndpoint(svc)
		updateTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateTask"))(updateTaskEndpoint)
	}
	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = MakeDeleteTaskEndpoint(svc)
		deleteTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteTask"))(deleteTaskEndpoint)
	}
	var completeTaskEndpoint endpoint.Endpoint
	{
		completeTaskEndpoint = MakeCompleteTaskEndpoint(svc)
		completeTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CompleteTask"))(completeTaskEndpoint)
	}

	return Set{
		CreateTaskEndpoint:   createTaskEndpoint,
		TasksEndpoint:        tasksEndpoint,
		TasksByUserEndpoint:  tasksByUserEndpoint,
		TaskEndpoint:         taskEndpoint,
		UpdateTaskEndpoint:   updateTaskEndpoint,
		DeleteTaskEndpoint:   deleteTaskEndpoint,
		CompleteTaskEndpoint: completeTaskEndpoint,
	}
}

// callerID extracts the authenticated user's identifier from the verified
// token claims placed in the context by the transport.
func callerID(ctx context.Context) (uint64, error) {
	claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(stdjwt.MapClaims)
	if !ok {
		return 0, authsvc.ErrClaimsMissing
	}

	id, err := strconv.ParseUint(fmt.Sprintf("%.f", claims["id"]), 10, 64)
	if err != nil {
		return 0, authsvc.ErrClaimsInvalid
	}

	return id, nil
}

func MakeCreateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		ownerID, err := callerID(ctx)
		if err != nil {
			return CreateTaskResponse{Err: err}, nil
		}

		req := request.(CreateTaskRequest)
		task, err := s.CreateTask(ctx, ownerID, req.Task)

		return CreateTaskResponse{Task: task, Err: err}, nil
	}
}

func MakeTasksEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		ownerID, err := callerID(ctx)
		if err != nil {
			return TasksResponse{Err: err}, nil
		}

		_ = request.(TasksRequest)
		tasks, err := s.Tasks(ctx, ownerID)

		return TasksResponse{Tasks: tasks, Err: err}, nil
	}
}

func MakeTasksByUserEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(TasksByUserRequest)
		tasks, err := s.TasksByUser(ctx, req.UserID)

		return TasksResponse{Tasks: tasks, Err: err}, nil
	}
}

func MakeTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(TaskRequest)
		task, err := s.Task(ctx, req.TaskID)

		return TaskResponse{Task: task, Err: err}, nil
	}
}

func MakeUpdateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(UpdateTaskRequest)
		task, err := s.UpdateTask(ctx, req.TaskID, req.Update)

		return TaskResponse{Task: task, Err: err}, nil
	}
}

func MakeDeleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(DeleteTaskRequest)
		_, err = s.DeleteTask(ctx, req.TaskID)

		return DeleteTaskResponse{Message: "Task deleted successfully", Err: err}, nil
	}
}

func MakeCompleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(CompleteTaskRequest)
		task, err := s.CompleteTask(ctx, req.TaskID)

		return CompleteTaskResponse{Message: "Task completed successfully", Task: task, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = CreateTaskResponse{}
	_ endpoint.Failer = TasksResponse{}
	_ endpoint.Failer = TaskResponse{}
	_ endpoint.Failer = DeleteTaskResponse{}
	_ endpoint.Failer = CompleteTaskResponse{}
)

type CreateTaskRequest struct {
	Task tasksvc.NewTask
}

type CreateTaskResponse struct {
	Task tasksvc.Task `json:"-"`
	Err  error        `json:"-"`
}

func (r CreateTaskResponse) Failed() error   { return r.Err }
func (r CreateTaskResponse) StatusCode() int { return http.StatusCreated }

func (r CreateTaskResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Task)
}

type TasksRequest struct{}

type TasksByUserRequest struct {
	UserID uint64
}

// TasksResponse serializes as a bare list.
type TasksResponse struct {
	Tasks []tasksvc.Task `json:"-"`
	Err   error          `json:"-"`
}

func (r TasksResponse) Failed() error { return r.Err }

func (r TasksResponse) MarshalJSON() ([]byte, error) {
	if r.Tasks == nil {
		return json.Marshal([]tasksvc.Task{})
	}
	return json.Marshal(r.Tasks)
}

type TaskRequest struct {
	TaskID uint64
}

type UpdateTaskRequest struct {
	TaskID uint64
	Update tasksvc.TaskUpdate
}

// TaskResponse serializes the task flat.
type TaskResponse struct {
	Task tasksvc.Task `json:"-"`
	Err  error        `json:"-"`
}

func (r TaskResponse) Failed() error { return r.Err }

func (r TaskResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Task)
}

type DeleteTaskRequest struct {
	TaskID uint64
}

type DeleteTaskResponse struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (r DeleteTaskResponse) Failed() error { return r.Err }

type CompleteTaskRequest struct {
	TaskID uint64
}

type CompleteTaskResponse struct {
	Message string       `json:"message"`
	Task    tasksvc.Task `json:"task"`
	Err     error        `json:"-"`
}

func (r CompleteTaskResponse) Failed() error { return r.Err }
