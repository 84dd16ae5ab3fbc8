package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"planning_backend/internal/config"
	authadapters "planning_backend/internal/feature/auth/adapters"
	authhandler "planning_backend/internal/feature/auth/transport/handler"
	authusecase "planning_backend/internal/feature/auth/usecase"
	employeeadapters "planning_backend/internal/feature/employees/adapters"
	employee "planning_backend/internal/feature/employees/domain/entity"
	employeehandler "planning_backend/internal/feature/employees/transport/handler"
	employeeusecase "planning_backend/internal/feature/employees/usecase"
	planadapters "planning_backend/internal/feature/planning/adapters"
	plan "planning_backend/internal/feature/planning/domain/entity"
	planhandler "planning_backend/internal/feature/planning/transport/handler"
	planusecase "planning_backend/internal/feature/planning/usecase"
	projectadapters "planning_backend/internal/feature/projects/adapters"
	project "planning_backend/internal/feature/projects/domain/entity"
	projecthandler "planning_backend/internal/feature/projects/transport/handler"
	projectusecase "planning_backend/internal/feature/projects/usecase"
	"planning_backend/internal/platform/db"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/platform/metrics"
	"planning_backend/internal/platform/password"
)

const (
	testUser     = "planner"
	testPassword = "Secret123!"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	models := append(authadapters.Models(), &employee.Employee{}, &project.Project{}, &plan.ProjectPlanning{})
	require.NoError(t, conn.AutoMigrate(models...))

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	issuer := jwtmw.NewIssuer(jwtmw.Config{Key: "0123456789abcdef0123456789abcdef", Issuer: "planning", Audience: "planning"}, nil)
	hasher := password.NewHasher(config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1})

	authUC := authusecase.NewAuthUsecase(authusecase.Deps{
		Users:    authadapters.NewUserGorm(conn),
		Hasher:   hasher,
		Issuer:   issuer,
		Sessions: authadapters.NewSessionGorm(conn),
		Logger:   log,
		Observer: metrics.NewAuthMetrics(reg),
	})
	_, err = authUC.Register(context.Background(), authusecase.RegisterInput{
		UserName: testUser,
		Email:    "planner@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	employeeRepo := employeeadapters.NewEmployeeRepository(conn)
	projectRepo := projectadapters.NewProjectRepository(conn)
	employeeUC := employeeusecase.NewEmployeeUsecase(employeeRepo)
	projectUC := projectusecase.NewProjectUsecase(projectRepo)
	planUC := planusecase.NewPlanningUsecase(planadapters.NewPlanningRepository(conn), employeeRepo, projectRepo)

	return NewRouter(Deps{
		Logger:         log,
		CORSOrigin:     "http://localhost:4200",
		SessionSecret:  []byte("session-secret"),
		SessionTTL:     time.Hour,
		TokenValidator: issuer,
		Health:         db.HealthChecker{DB: conn},
		Gatherer:       reg,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Auth:           authhandler.NewAuthHandler(authUC, log),
		Employees:      employeehandler.NewEmployeeHandler(employeeUC, log),
		Projects:       projecthandler.NewProjectHandler(projectUC, log),
		Plans:          planhandler.NewPlanHandler(planUC, log),
	})
}

func do(r http.Handler, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issueToken(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/auth/token", map[string]string{"username": testUser, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestRouter_Health(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestEngine(t)

	paths := []string{"/api/employees", "/api/projects", "/api/plans", "/api/employees/1/plans"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			w := do(r, http.MethodGet, p, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_TokenFlow(t *testing.T) {
	r := newTestEngine(t)
	token := issueToken(t, r)
	bearer := func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }

	w := do(r, http.MethodPost, "/api/employees", map[string]string{
		"title": "Engineer", "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	}, bearer)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID        uint   `json:"id"`
		CreatedBy string `json:"createdBy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, testUser, created.CreatedBy)

	w = do(r, http.MethodGet, "/api/employees", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/employees/1/plans", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_TokenRejectsBadCredentials(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodPost, "/api/auth/token", map[string]string{"username": testUser, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials."}`, w.Body.String())
}

func TestRouter_SessionFlow(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodPost, "/api/auth/login", map[string]string{"username": testUser, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	withCookies := func(req *http.Request) {
		for _, c := range cookies {
			req.AddCookie(c)
		}
	}

	w = do(r, http.MethodGet, "/api/projects", nil, withCookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/auth/logout", nil, withCookies)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/projects", nil, withCookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginFailureBody(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodPost, "/api/auth/login", map[string]string{"username": testUser, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot authenticate user."}`, w.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodOptions, "/api/employees", nil, func(req *http.Request) {
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestEngine(t)
	_ = do(r, http.MethodGet, "/healthz", nil, nil)

	w := do(r, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
