package authtransport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/taskpad/backend/authsvc"
)

// TokenToContext moves the raw signed token from the custom request
// header into the context, where the JWT parser middleware expects it.
// The header carries the token as-is, without a bearer scheme.
func TokenToContext() httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := r.Header.Get(authsvc.TokenHeader)
		if token == "" {
			return ctx
		}
		return context.WithValue(ctx, kitjwt.JWTContextKey, token)
	}
}

// NewOwnerChecker denies requests whose verified caller is not the user
// the route targets. It must run after the JWT parser middleware.
func NewOwnerChecker() endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(stdjwt.MapClaims)
			if !ok {
				return nil, authsvc.ErrClaimsMissing
			}

			id, err := strconv.ParseUint(fmt.Sprintf("%.f", claims["id"]), 10, 64)
			if err != nil {
				return nil, authsvc.ErrClaimsInvalid
			}

			req, ok := request.(authsvc.OwnerRequest)
			if !ok {
				return nil, authsvc.ErrInvalidArgument
			}
			if req.TargetUserID() != id {
				return nil, authsvc.ErrNotOwner
			}

			return next(ctx, request)
		}
	}
}
