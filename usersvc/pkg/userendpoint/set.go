package userendpoint

import (
	"context"
	"encoding/json"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/usersvc"
	"github.com/taskpad/backend/usersvc/pkg/userservice"
)

type Set struct {
	UsersEndpoint      endpoint.Endpoint
	UserEndpoint       endpoint.Endpoint
	UpdateUserEndpoint endpoint.Endpoint
	DeleteUserEndpoint endpoint.Endpoint
}

func New(svc userservice.Service, logger log.Logger) Set {
	var usersEndpoint endpoint.Endpoint
	{
		usersEndpoint = MakeUsersEndpoint(svc)
		usersEndpoint = LoggingMiddleware(log.With(logger, "method", "Users"))(usersEndpoint)
	}

	var userEndpoint endpoint.Endpoint
	{
		userEndpoint = MakeUserEndpoint(svc)
		userEndpoint = LoggingMiddleware(log.With(logger, "method", "User"))(userEndpoint)
	}

	var updateUserEndpoint endpoint.Endpoint
	{
		updateUserEndpoint = MakeUpdateUserEndpoint(svc)
		updateUserEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateUser"))(updateUserEndpoint)
	}

	var deleteUserEndpoint endpoint.Endpoint
	{
		deleteUserEndpoint = MakeDeleteUserEndpoint(svc)
		deleteUserEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteUser"))(deleteUserEndpoint)
	}

	return Set{
		UsersEndpoint:      usersEndpoint,
		UserEndpoint:       userEndpoint,
		UpdateUserEndpoint: updateUserEndpoint,
		DeleteUserEndpoint: deleteUserEndpoint,
	}
}

func MakeUsersEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		_ = request.(UsersRequest)
		users, err := s.Users(ctx)

		return UsersResponse{Users: users, Err: err}, nil
	}
}

func MakeUserEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(UserRequest)
		p, err := s.User(ctx, req.UserID)

		return UserResponse{User: p, Err: err}, nil
	}
}

func MakeUpdateUserEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(UpdateUserRequest)
		user, err := s.UpdateUser(ctx, req.UserID, req.Update)

		return UpdateUserResponse{User: user, Err: err}, nil
	}
}

func MakeDeleteUserEndpoint(s userservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(DeleteUserRequest)
		_, err = s.DeleteUser(ctx, req.UserID)

		return DeleteUserResponse{Message: "User deleted successfully", Err: err}, nil
	}
}

var (
	_ endpoint.Failer = UsersResponse{}
	_ endpoint.Failer = UserResponse{}
	_ endpoint.Failer = UpdateUserResponse{}
	_ endpoint.Failer = DeleteUserResponse{}
)

type UsersRequest struct{}

// UsersResponse serializes as a bare list.
type UsersResponse struct {
	Users []usersvc.User `json:"-"`
	Err   error          `json:"-"`
}

func (r UsersResponse) Failed() error { return r.Err }

func (r UsersResponse) MarshalJSON() ([]byte, error) {
	if r.Users == nil {
		return json.Marshal([]usersvc.User{})
	}
	return json.Marshal(r.Users)
}

type UserRequest struct {
	UserID uint64
}

func (r UserRequest) TargetUserID() uint64 { return r.UserID }

type UserResponse struct {
	User userservice.Profile `json:"user"`
	Err  error               `json:"-"`
}

func (r UserResponse) Failed() error { return r.Err }

type UpdateUserRequest struct {
	UserID uint64
	Update usersvc.UserUpdate
}

func (r UpdateUserRequest) TargetUserID() uint64 { return r.UserID }

// UpdateUserResponse serializes the updated profile flat.
type UpdateUserResponse struct {
	usersvc.User
	Err error `json:"-"`
}

func (r UpdateUserResponse) Failed() error { return r.Err }

type DeleteUserRequest struct {
	UserID uint64
}

func (r DeleteUserRequest) TargetUserID() uint64 { return r.UserID }

type DeleteUserResponse struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (r DeleteUserResponse) Failed() error { return r.Err }
