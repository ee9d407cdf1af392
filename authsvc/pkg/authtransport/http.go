package authtransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/authsvc/pkg/authendpoint"
	"github.com/taskpad/backend/usersvc"
)

func NewHTTPHandler(endpoints authendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	registerHandler := httptransport.NewServer(
		endpoints.RegisterEndpoint,
		decodeHTTPRegisterRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	loginHandler := httptransport.NewServer(
		endpoints.LoginEndpoint,
		decodeHTTPLoginRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/auth/register").Handler(registerHandler)
	r.Methods("POST").Path("/auth/login").Handler(loginHandler)

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
	case authsvc.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case usersvc.ErrDuplicateUser, usersvc.ErrInvalidArgument, authsvc.ErrInvalidArgument:
		return http.StatusBadRequest
	case ratelimit.ErrLimited:
		return http.StatusTooManyRequests
	}
	if _, ok := err.(usersvc.ValidationError); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errInternal replaces unexpected failures on the wire. The original
// error is only logged.
var errInternal = errors.New("internal server error")

type errorWrapper struct {
	Message string `json:"message"`
}

func decodeHTTPRegisterRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, usersvc.ErrInvalidArgument
	}
	return req, nil
}

func decodeHTTPLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, usersvc.ErrInvalidArgument
	}
	return req, nil
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
