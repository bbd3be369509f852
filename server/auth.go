package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

type identityKey struct{}

// authenticator verifies HS256 bearer tokens issued elsewhere; it never
// mints tokens itself. When disabled every request passes as anonymous.
type authenticator struct {
	enabled bool
	secret  []byte
}

func newAuthenticator(enabled bool, secret string) *authenticator {
	return &authenticator{enabled: enabled, secret: []byte(secret)}
}

// verify extracts and validates the Authorization header, returning the
// token's subject.
func (a *authenticator) verify(r *http.Request) (string, error) {
	if !a.enabled {
		return "anonymous", nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errMissingToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject claim", errInvalidToken)
	}
	return sub, nil
}

// require wraps a handler, rejecting requests without a valid token and
// stashing the subject in the request context.
func (a *authenticator) require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := a.verify(r)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, sub)
		next(w, r.WithContext(ctx))
	}
}

// subjectFrom returns the authenticated subject, or "" outside an
// authenticated handler.
func subjectFrom(ctx context.Context) string {
	sub, _ := ctx.Value(identityKey{}).(string)
	return sub
}
