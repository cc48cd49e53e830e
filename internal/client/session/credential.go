package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredential = errors.New("invalid credential")

// Credential is the identity issued on login. It is replaced wholesale on
// re-login and never mutated in place.
type Credential struct {
	UserID   string
	Token    string `validate:"required"`
	Username string `validate:"required"`
	Email    string
}

var validate = validator.New()

// Validate reports ErrInvalidCredential when a required field is missing.
func (c Credential) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return nil
}

// tokenClaims inspects token without verifying its signature; the client
// never holds the signing key. ok is false when token is not a JWT.
func tokenClaims(token string) (exp time.Time, subject string, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, "", false
	}

	if e, err := claims.GetExpirationTime(); err == nil && e != nil {
		exp = e.Time
	}
	subject, _ = claims.GetSubject()
	return exp, subject, true
}
