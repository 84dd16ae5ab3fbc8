package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "planning_backend/internal/feature/auth/transport/handler"
	employeehandler "planning_backend/internal/feature/employees/transport/handler"
	planhandler "planning_backend/internal/feature/planning/transport/handler"
	projecthandler "planning_backend/internal/feature/projects/transport/handler"
	"planning_backend/internal/platform/http/handler"
	"planning_backend/internal/platform/http/middleware"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/platform/metrics"
)

// SessionCookieName is the name of the signed cookie carrying the session id.
const SessionCookieName = "planning_session"

// Deps collects everything the router wires together.
type Deps struct {
	Logger         *logger.Logger
	CORSOrigin     string
	SessionSecret  []byte
	SessionTTL     time.Duration
	SecureCookies  bool
	TokenValidator jwtmw.TokenValidator
	Health         handler.Pinger
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *metrics.HTTPMetrics

	Auth      *authhandler.AuthHandler
	Employees *employeehandler.EmployeeHandler
	Projects  *projecthandler.ProjectHandler
	Plans     *planhandler.PlanHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(d.Logger), middleware.Logging(d.Logger))
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware())
	}

	// オリジンは設定値1件のみ。資格情報付きリクエストではワイルドカードが効かないため主要ヘッダーも列挙する
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*", "Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore(d.SessionSecret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(d.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionCookieName, store))

	// 認証不要
	// 導通確認用
	health := handler.Health(d.Health)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	authGroup := api.Group("/auth")
	{
		// 対話的ログイン（セッションCookie）
		authGroup.POST("/login", d.Auth.Login)
		// トークン発行（JWT）
		authGroup.POST("/token", d.Auth.Token)
		authGroup.POST("/logout", d.Auth.Logout)
	}

	// 認証必須のルート
	// Bearerトークンまたはセッションのいずれかが必要
	protected := api.Group("")
	protected.Use(jwtmw.AuthRequired(d.TokenValidator, d.Auth))
	{
		protected.GET("/employees", d.Employees.List)
		protected.POST("/employees", d.Employees.Create)
		protected.GET("/employees/:id", d.Employees.Get)
		protected.PUT("/employees/:id", d.Employees.Update)
		protected.DELETE("/employees/:id", d.Employees.Delete)
		protected.GET("/employees/:id/plans", d.Plans.ListByEmployee)

		protected.GET("/projects", d.Projects.List)
		protected.POST("/projects", d.Projects.Create)
		protected.GET("/projects/:id", d.Projects.Get)
		protected.PUT("/projects/:id", d.Projects.Update)
		protected.DELETE("/projects/:id", d.Projects.Delete)

		protected.GET("/plans", d.Plans.List)
		protected.POST("/plans", d.Plans.Create)
		protected.GET("/plans/:id", d.Plans.Get)
		protected.PUT("/plans/:id", d.Plans.Update)
		protected.DELETE("/plans/:id", d.Plans.Delete)
	}

	return r
}
