package jwtmw

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"planning_backend/internal/shared/audit"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockValidator struct {
	ValidateFunc func(token string) (*Claims, error)
}

func (m *mockValidator) Validate(token string) (*Claims, error) {
	return m.ValidateFunc(token)
}

type mockAuthenticator struct {
	username string
	ok       bool
}

func (m *mockAuthenticator) Authenticate(*gin.Context) (string, bool) {
	return m.username, m.ok
}

func runMiddleware(t *testing.T, mw gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	var gotUser, gotActor string
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		gotUser = Username(c)
		gotActor = audit.ActorFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w, gotUser, gotActor
}

// TestAuthRequired_MissingBearerToken はBearerトークンがない場合やプレフィックスが不正な場合に401が返されることを検証します。
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	validator := &mockValidator{ValidateFunc: func(string) (*Claims, error) {
		t.Fatal("validator must not be called")
		return nil, nil
	}}

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, _ := runMiddleware(t, AuthRequired(validator, nil), tt.authHeader)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// TestAuthRequired_InvalidToken は不正なトークンで401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	validator := &mockValidator{ValidateFunc: func(string) (*Claims, error) {
		return nil, errors.New("signature is invalid")
	}}
	// a bad bearer token is not rescued by a valid session
	fallback := &mockAuthenticator{username: "session-user", ok: true}

	w, _, _ := runMiddleware(t, AuthRequired(validator, fallback), "Bearer bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

// TestAuthRequired_ValidToken は有効なトークンでユーザー名と監査アクターが設定されることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	validator := &mockValidator{ValidateFunc: func(token string) (*Claims, error) {
		assert.Equal(t, "good", token)
		return &Claims{Subject: "jdoe"}, nil
	}}

	w, user, actor := runMiddleware(t, AuthRequired(validator, nil), "Bearer good")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "jdoe", user)
	assert.Equal(t, "jdoe", actor)
}

func TestAuthRequired_SessionFallback(t *testing.T) {
	validator := &mockValidator{}

	w, user, actor := runMiddleware(t, AuthRequired(validator, &mockAuthenticator{username: "planner", ok: true}), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "planner", user)
	assert.Equal(t, "planner", actor)

	w, _, _ = runMiddleware(t, AuthRequired(validator, &mockAuthenticator{}), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_WithRealIssuer(t *testing.T) {
	iss := NewIssuer(Config{Key: testKey, Issuer: "planning-api", Audience: "planning-client"}, nil)
	tok, err := iss.Issue(Subject{Username: "jdoe"})
	assert.NoError(t, err)

	w, user, _ := runMiddleware(t, AuthRequired(iss, nil), "Bearer "+tok.Value)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "jdoe", user)
}
