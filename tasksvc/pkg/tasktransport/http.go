package tasktransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/authsvc/pkg/authtransport"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/tasksvc/pkg/taskendpoint"
	"github.com/taskpad/backend/usersvc"
)

func NewHTTPHandler(endpoints taskendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerBefore(authtransport.TokenToContext()),
	}

	kf := func(token *stdjwt.Token) (interface{}, error) {
		return []byte(authsvc.AccessSecret), nil
	}
	parser := kitjwt.NewParser(kf, stdjwt.SigningMethodHS256, kitjwt.MapClaimsFactory)

	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = parser(endpoints.CreateTaskEndpoint)
	}
	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = parser(endpoints.TasksEndpoint)
	}
	var tasksByUserEndpoint endpoint.Endpoint
	{
		tasksByUserEndpoint = parser(endpoints.TasksByUserEndpoint)
	}
	var taskEndpoint endpoint.Endpoint
	{
		taskEndpoint = parser(endpoints.TaskEndpoint)
	}
	var updateTaskEndpoint endpoint.Endpoint
	{
		updateTaskEndpoint = parser(endpoints.UpdateTaskEndpoint)
	}
	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = parser(endpoints.DeleteTaskEndpoint)
	}
	var completeTaskEndpoint endpoint.Endpoint
	{
		completeTaskEndpoint = parser(endpoints.CompleteTaskEndpoint)
	}

	createTaskHandler := httptransport.NewServer(
		createTaskEndpoint,
		decodeHTTPCreateTaskRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	tasksHandler := httptransport.NewServer(
		tasksEndpoint,
		decodeHTTPTasksRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	tasksByUserHandler := httptransport.NewServer(
		tasksByUserEndpoint,
		decodeHTTPTasksByUserRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	taskHandler := httptransport.NewServer(
		taskEndpoint,
		decodeHTTPTaskRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	updateTaskHandler := httptransport.NewServer(
		updateTaskEndpoint,
		decodeHTTPUpdateTaskRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	deleteTaskHandler := httptransport.NewServer(
		deleteTaskEndpoint,
		decodeHTTPDeleteTaskRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	completeTaskHandler := httptransport.NewServer(
		completeTaskEndpoint,
		decodeHTTPCompleteTaskRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/tasks").Handler(createTaskHandler)
	r.Methods("GET").Path("/tasks").Handler(tasksHandler)
	r.Methods("GET").Path("/tasks/user/{user_id}").Handler(tasksByUserHandler)
	r.Methods("PUT").Path("/tasks/complete/{task_id}").Handler(completeTaskHandler)
	r.Methods("GET").Path("/tasks/{task_id}").Handler(taskHandler)
	r.Methods("PUT").Path("/tasks/{task_id}").Handler(updateTaskHandler)
	r.Methods("DELETE").Path("/tasks/{task_id}").Handler(deleteTaskHandler)

	return r
}

func errorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	code := err2code(err)
	if code == http.StatusInternalServerError {
		err = errInternal
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorWrapper{Message: err.Error()})
}

func err2code(err error) int {
	switch err {
	case kitjwt.ErrTokenContextMissing, kitjwt.ErrTokenInvalid, kitjwt.ErrTokenExpired,
		kitjwt.ErrTokenMalformed, kitjwt.ErrTokenNotActive, kitjwt.ErrUnexpectedSigningMethod,
		authsvc.ErrClaimsMissing, authsvc.ErrClaimsInvalid:
		return http.StatusUnauthorized
	case tasksvc.ErrTaskNotFound, usersvc.ErrUserNotFound:
		return http.StatusNotFound
	case tasksvc.ErrInvalidArgument:
		return http.StatusBadRequest
	}
	if _, ok := err.(tasksvc.ValidationError); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errInternal = errors.New("internal server error")

type errorWrapper struct {
	Message string `json:"message"`
}

func decodeHTTPCreateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var task tasksvc.NewTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}

	return taskendpoint.CreateTaskRequest{Task: task}, nil
}

func decodeHTTPTasksRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return taskendpoint.TasksRequest{}, nil
}

func decodeHTTPTasksByUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["user_id"], 10, 64)
	if err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}

	return taskendpoint.TasksByUserRequest{UserID: userID}, nil
}

func decodeHTTPTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDVar(r)
	if err != nil {
		return nil, err
	}

	return taskendpoint.TaskRequest{TaskID: taskID}, nil
}

func decodeHTTPUpdateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDVar(r)
	if err != nil {
		return nil, err
	}

	var update tasksvc.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}

	return taskendpoint.UpdateTaskRequest{TaskID: taskID, Update: update}, nil
}

func decodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDVar(r)
	if err != nil {
		return nil, err
	}

	return taskendpoint.DeleteTaskRequest{TaskID: taskID}, nil
}

func decodeHTTPCompleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := taskIDVar(r)
	if err != nil {
		return nil, err
	}

	return taskendpoint.CompleteTaskRequest{TaskID: taskID}, nil
}

func taskIDVar(r *http.Request) (uint64, error) {
	vars := mux.Vars(r)
	taskID, err := strconv.ParseUint(vars["task_id"], 10, 64)
	if err != nil {
		return 0, tasksvc.ErrInvalidArgument
	}
	return taskID, nil
}

func encodeHTTPGenericResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if sc, ok := response.(httptransport.StatusCoder); ok {
		w.WriteHeader(sc.StatusCode())
	}
	return json.NewEncoder(w).Encode(response)
}
