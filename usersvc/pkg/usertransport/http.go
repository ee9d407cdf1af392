package usertransport

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
	"github.com/taskpad/backend/usersvc"
	"github.com/taskpad/backend/usersvc/pkg/userendpoint"
)

func NewHTTPHandler(endpoints userendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerBefore(authtransport.TokenToContext()),
	}

	kf := func(token *stdjwt.Token) (interface{}, error) {
		return []byte(authsvc.AccessSecret), nil
	}
	parser := kitjwt.NewParser(kf, stdjwt.SigningMethodHS256, kitjwt.MapClaimsFactory)

	// Listing only needs a verified caller; the per-id routes are
	// owner-only.
	var usersEndpoint endpoint.Endpoint
	{
		usersEndpoint = endpoints.UsersEndpoint
		usersEndpoint = parser(usersEndpoint)
	}

	var userEndpoint endpoint.Endpoint
	{
		userEndpoint = endpoints.UserEndpoint
		userEndpoint = authtransport.NewOwnerChecker()(userEndpoint)
		userEndpoint = parser(userEndpoint)
	}

	var updateUserEndpoint endpoint.Endpoint
	{
		updateUserEndpoint = endpoints.UpdateUserEndpoint
		updateUserEndpoint = authtransport.NewOwnerChecker()(updateUserEndpoint)
		updateUserEndpoint = parser(updateUserEndpoint)
	}

	var deleteUserEndpoint endpoint.Endpoint
	{
		deleteUserEndpoint = endpoints.DeleteUserEndpoint
		deleteUserEndpoint = authtransport.NewOwnerChecker()(deleteUserEndpoint)
		deleteUserEndpoint = parser(deleteUserEndpoint)
	}

	usersHandler := httptransport.NewServer(
		usersEndpoint,
		decodeHTTPUsersRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	userHandler := httptransport.NewServer(
		userEndpoint,
		decodeHTTPUserRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	updateUserHandler := httptransport.NewServer(
		updateUserEndpoint,
		decodeHTTPUpdateUserRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	deleteUserHandler := httptransport.NewServer(
		deleteUserEndpoint,
		decodeHTTPDeleteUserRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	r := mux.NewRouter()

	r.Methods("GET").Path("/users").Handler(usersHandler)
	r.Methods("GET").Path("/users/{user_id}").Handler(userHandler)
	r.Methods("PUT").Path("/users/{user_id}").Handler(updateUserHandler)
	r.Methods("DELETE").Path("/users/{user_id}").Handler(deleteUserHandler)

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
	case authsvc.ErrNotOwner:
		return http.StatusForbidden
	case usersvc.ErrUserNotFound:
		return http.StatusNotFound
	case usersvc.ErrDuplicateUser, usersvc.ErrInvalidArgument:
		return http.StatusBadRequest
	}
	if _, ok := err.(usersvc.ValidationError); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errInternal = errors.New("internal server error")

type errorWrapper struct {
	Message string `json:"message"`
}

func decodeHTTPUsersRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return userendpoint.UsersRequest{}, nil
}

func decodeHTTPUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := userIDVar(r)
	if err != nil {
		return nil, err
	}

	return userendpoint.UserRequest{UserID: userID}, nil
}

func decodeHTTPUpdateUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := userIDVar(r)
	if err != nil {
		return nil, err
	}

	var update usersvc.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, usersvc.ErrInvalidArgument
	}

	return userendpoint.UpdateUserRequest{UserID: userID, Update: update}, nil
}

func decodeHTTPDeleteUserRequest(_ context.Context, r *http.Request) (interface{}, error) {
	userID, err := userIDVar(r)
	if err != nil {
		return nil, err
	}

	return userendpoint.DeleteUserRequest{UserID: userID}, nil
}

func userIDVar(r *http.Request) (uint64, error) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["user_id"], 10, 64)
	if err != nil {
		return 0, usersvc.ErrInvalidArgument
	}
	return userID, nil
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
