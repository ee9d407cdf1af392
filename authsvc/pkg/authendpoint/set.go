package authendpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/taskpad/backend/authsvc/pkg/authservice"
	"github.com/taskpad/backend/usersvc"
	"golang.org/x/time/rate"
)

type Set struct {
	RegisterEndpoint endpoint.Endpoint
	LoginEndpoint    endpoint.Endpoint
}

func New(svc authservice.Service, logger log.Logger) Set {
	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = MakeRegisterEndpoint(svc)
		registerEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 30))(registerEndpoint)
		registerEndpoint = LoggingMiddleware(log.With(logger, "method", "Register"))(registerEndpoint)
	}

	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = MakeLoginEndpoint(svc)
		loginEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 30))(loginEndpoint)
		loginEndpoint = LoggingMiddleware(log.With(logger, "method", "Login"))(loginEndpoint)
	}

	return Set{
		RegisterEndpoint: registerEndpoint,
		LoginEndpoint:    loginEndpoint,
	}
}

func MakeRegisterEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(RegisterRequest)
		user, token, err := s.Register(ctx, usersvc.NewUser{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})

		return RegisterResponse{User: user, Token: token, Err: err}, nil
	}
}

func MakeLoginEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(LoginRequest)
		user, token, err := s.Login(ctx, req.Email, req.Password)

		return LoginResponse{ID: user.ID, Username: user.Username, Token: token, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = RegisterResponse{}
	_ endpoint.Failer = LoginResponse{}
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse serializes the created profile flat, with the issued
// token alongside it. The password never leaves the domain type.
type RegisterResponse struct {
	usersvc.User
	Token string `json:"token"`
	Err   error  `json:"-"`
}

func (r RegisterResponse) Failed() error   { return r.Err }
func (r RegisterResponse) StatusCode() int { return http.StatusCreated }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
	Err      error  `json:"-"`
}

func (r LoginResponse) Failed() error { return r.Err }
