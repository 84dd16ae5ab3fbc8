package response

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/logger"
)

func run(t *testing.T, logg *logger.Logger, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, logg, err)
	return w
}

func TestError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "validation with details",
			err:            apperr.New(apperr.CodeValidation, "validation failed").WithDetails(map[string]string{"email": "is required"}),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"validation failed","details":{"email":"is required"}}`,
		},
		{
			name:           "not found keeps message",
			err:            apperr.New(apperr.CodeNotFound, "employee not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"employee not found"}`,
		},
		{
			name:           "unauthorized hides message",
			err:            apperr.New(apperr.CodeUnauthorized, "token signature invalid"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"authentication required"}`,
		},
		{
			name:           "plain error is internal and generic",
			err:            errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
		{
			name:           "wrapped apperr is found in chain",
			err:            errors.Join(errors.New("outer"), apperr.New(apperr.CodeConflict, "already exists")),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"already exists"}`,
		},
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := run(t, nil, tt.err)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestError_LogsInternalCause(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})

	run(t, logg, errors.New("pq: relation does not exist"))

	assert.Contains(t, buf.String(), "request.error")
	assert.Contains(t, buf.String(), "pq: relation does not exist")
	assert.Contains(t, buf.String(), `"error_code":"INTERNAL_ERROR"`)
}
