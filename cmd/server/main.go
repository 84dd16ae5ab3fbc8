package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"planning_backend/internal/app/di"
	"planning_backend/internal/app/router"
	"planning_backend/internal/app/seed"
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
	"planning_backend/internal/platform/cache"
	"planning_backend/internal/platform/db"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/platform/metrics"
	"planning_backend/internal/platform/migrate"
	"planning_backend/internal/platform/password"
	infraredis "planning_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "planning-backend",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	// db
	conn, err := db.Open(ctx, cfg.Data, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logg.Error(ctx, "failed to close database", err)
		}
	}()

	if cfg.Data.AutoMigrate {
		if err := migrateSchema(ctx, conn, cfg.Data.Driver); err != nil {
			return err
		}
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis unavailable, sessions fall back to SQL")
		} else {
			rdb = client
			defer func() {
				if err := rdb.Close(); err != nil {
					logg.Error(ctx, "failed to close redis client", err)
				}
			}()
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Repository
	userRepo := authadapters.NewUserGorm(conn)
	sessionRepo := di.NewSessionRepository(rdb, conn)
	var employeeRepo employeeusecase.EmployeeRepository = employeeadapters.NewEmployeeRepository(conn)
	var projectRepo projectusecase.ProjectRepository = projectadapters.NewProjectRepository(conn)
	if rdb != nil {
		// Redisキャッシュでラップ
		employeeRepo = cache.NewCachingRepository[employee.Employee](rdb, cfg.Redis.CacheTTL, employeeRepo, "employees")
		projectRepo = cache.NewCachingRepository[project.Project](rdb, cfg.Redis.CacheTTL, projectRepo, "projects")
	}
	planRepo := planadapters.NewPlanningRepository(conn)

	if rdb == nil {
		pruned, err := authadapters.NewSessionGorm(conn).DeleteExpired(ctx)
		if err != nil {
			logg.Error(ctx, "failed to prune expired sessions", err)
		} else if pruned > 0 {
			logg.Info(logg.WithField(ctx, "count", pruned), "expired sessions pruned")
		}
	}

	// Usecase
	issuer := jwtmw.NewIssuer(jwtmw.Config{
		Key:      cfg.Tokens.Key,
		Issuer:   cfg.Tokens.Issuer,
		Audience: cfg.Tokens.Audience,
	}, nil)
	authUC := authusecase.NewAuthUsecase(authusecase.Deps{
		Users:      userRepo,
		Hasher:     password.NewHasher(cfg.Password),
		Issuer:     issuer,
		Sessions:   sessionRepo,
		SessionTTL: cfg.Session.TTL,
		Logger:     logg,
		Observer:   metrics.NewAuthMetrics(reg),
	})
	employeeUC := employeeusecase.NewEmployeeUsecase(employeeRepo)
	projectUC := projectusecase.NewProjectUsecase(projectRepo)
	planUC := planusecase.NewPlanningUsecase(planRepo, employeeRepo, projectRepo)

	if cfg.Data.Seed {
		s := &seed.Seeder{
			Users:     authUC,
			Employees: employeeRepo,
			Projects:  projectRepo,
			Plans:     planRepo,
			Log:       logg,
			UserName:  cfg.Data.SeedUserName,
			Password:  cfg.Data.SeedUserPassword,
		}
		if err := s.Run(ctx); err != nil {
			return err
		}
	}

	// Handler / ルータ生成
	engine := router.NewRouter(router.Deps{
		Logger:         logg,
		CORSOrigin:     cfg.App.CORSOrigin,
		SessionSecret:  []byte(cfg.Session.Secret),
		SessionTTL:     cfg.Session.TTL,
		SecureCookies:  cfg.App.Env == "production",
		TokenValidator: issuer,
		Health:         db.HealthChecker{DB: conn},
		Gatherer:       reg,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Auth:           authhandler.NewAuthHandler(authUC, logg),
		Employees:      employeehandler.NewEmployeeHandler(employeeUC, logg),
		Projects:       projecthandler.NewProjectHandler(projectUC, logg),
		Plans:          planhandler.NewPlanHandler(planUC, logg),
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", srv.Addr), "http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// migrateSchema はPostgresではgooseのSQLマイグレーションを、それ以外はAutoMigrateを適用します。
func migrateSchema(ctx context.Context, conn *gorm.DB, driver string) error {
	if driver == config.DriverPostgres {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return migrate.Run(ctx, sqlDB, "up")
	}
	models := append(authadapters.Models(), &employee.Employee{}, &project.Project{}, &plan.ProjectPlanning{})
	return conn.WithContext(ctx).AutoMigrate(models...)
}
