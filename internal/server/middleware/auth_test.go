package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]string
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]string)}
}

func (v *testTokenValidator) addValidToken(token, subject string) {
	v.validTokens[token] = subject
}

func (v *testTokenValidator) ValidateToken(tokenString string) (SubjectGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	subject, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(subject), nil
}

type testClaims string

func (c testClaims) GetSubject() string { return string(c) }

func serve(t *testing.T, h http.Handler, method, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	req := httptest.NewRequest(method, "/state/basics", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, w.Code == http.StatusOK
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	validator.addValidToken("valid-test-token-123", "cli")

	var subject string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		subject, err = GetSubject(r)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	w, ok := serve(t, AuthMiddleware(validator)(handler), http.MethodPatch, "Bearer valid-test-token-123")
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cli", subject)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	validator := newTestTokenValidator()
	validator.addValidToken("token123", "cli")

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "missing Bearer prefix", authHeader: "token123"},
		{name: "only Bearer", authHeader: "Bearer"},
		{name: "wrong scheme", authHeader: "Basic token123"},
		{name: "extra parts", authHeader: "Bearer token123 extra"},
		{name: "unknown token", authHeader: "Bearer not.a.valid.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
			})

			req := httptest.NewRequest(http.MethodPost, "/state/work", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(validator)(handler).ServeHTTP(w, req)

			assert.False(t, handlerCalled, "handler should not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}

func TestAuthMiddleware_CaseInsensitiveScheme(t *testing.T) {
	validator := newTestTokenValidator()
	validator.addValidToken("token123", "cli")
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	for _, header := range []string{"bearer token123", "BeArEr token123", "Bearer  token123"} {
		t.Run(header, func(t *testing.T) {
			w, _ := serve(t, AuthMiddleware(validator)(handler), http.MethodDelete, header)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestAuthMiddleware_SkipSafeMethods(t *testing.T) {
	validator := newTestTokenValidator()
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mw := AuthMiddleware(validator, Skip(SafeMethods))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		w, _ := serve(t, mw(handler), method, "")
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w, _ := serve(t, mw(handler), method, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, method)
	}
}

func TestGetSubject_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	subject, err := GetSubject(req)
	assert.Error(t, err)
	assert.Empty(t, subject)
	assert.Contains(t, err.Error(), "token subject not found")
}

func TestGetSubject_InvalidType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), subjectKey, 42))

	_, err := GetSubject(req)
	assert.Error(t, err)
}
