// Package middleware provides HTTP middleware for API token authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// subjectKey is the context key for the authenticated token subject.
const subjectKey ContextKey = "subject"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (SubjectGetter, error)
}

// SubjectGetter exposes the subject of validated token claims.
type SubjectGetter interface {
	GetSubject() string
}

// Option configures AuthMiddleware.
type Option func(*options)

type options struct {
	skip func(*http.Request) bool
}

// Skip lets requests matching fn through without a token.
func Skip(fn func(*http.Request) bool) Option {
	return func(o *options) { o.skip = fn }
}

// SafeMethods matches requests that cannot change state.
func SafeMethods(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AuthMiddleware creates middleware that validates Bearer tokens and adds the
// token subject to the request context.
func AuthMiddleware(validator TokenValidator, opts ...Option) func(http.Handler) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if o.skip != nil && o.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.GetSubject())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="resume-builder"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// GetSubject extracts the authenticated token subject from the request context.
func GetSubject(r *http.Request) (string, error) {
	subject, ok := r.Context().Value(subjectKey).(string)
	if !ok {
		return "", fmt.Errorf("token subject not found in request context")
	}
	return subject, nil
}
