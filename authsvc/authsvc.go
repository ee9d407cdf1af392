package authsvc

import (
	"errors"
	"os"
)

var (
	AppEnv       = getEnv("APP_ENV", "")
	AccessSecret = getEnv("ACCESS_SECRET", "access-secret")
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

// TokenHeader is the request header carrying the raw signed token.
const TokenHeader = "X-Auth-Token"

// OwnerRequest is implemented by requests targeting a single user's
// resource. Owner-only routes compare the caller against this identifier.
type OwnerRequest interface {
	TargetUserID() uint64
}

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrNotOwner           = errors.New("access denied, only the owner has access")
	ErrClaimsMissing      = errors.New("JWT claims was not passed through the context")
	ErrClaimsInvalid      = errors.New("JWT claims was invalid")
)
