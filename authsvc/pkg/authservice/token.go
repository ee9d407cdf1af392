package authservice

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/taskpad/backend/authsvc"
	"github.com/twinj/uuid"
)

// Tokenizer issues and verifies the signed tokens attached to requests.
// Claims carry the subject's identifier and email.
type Tokenizer interface {
	Issue(userID uint64, email string) (string, error)
	Verify(token string) (jwt.MapClaims, error)
}

type tokenizer struct {
	secret []byte
	expiry time.Duration
}

func NewTokenizer(secret []byte, expiry time.Duration) Tokenizer {
	return &tokenizer{secret: secret, expiry: expiry}
}

var uuidV4 = uuid.NewV4

func (t *tokenizer) Issue(userID uint64, email string) (string, error) {
	claims := jwt.MapClaims{
		"uuid":  uuidV4().String(),
		"id":    userID,
		"email": email,
		"exp":   time.Now().Add(t.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *tokenizer) Verify(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, authsvc.ErrClaimsInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, authsvc.ErrClaimsInvalid
	}

	return claims, nil
}

func DefaultTokenExpiry() time.Duration {
	return time.Hour * 24
}
