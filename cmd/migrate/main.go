package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"planning_backend/internal/config"
	authadapters "planning_backend/internal/feature/auth/adapters"
	"planning_backend/internal/platform/db"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/platform/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	cmd := flag.String("cmd", "up", "command: up|down|status|version|validate|prune-sessions")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// DB不要のコマンド
	if *cmd == "validate" {
		if err := migrate.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"driver": cfg.Data.Driver,
	})

	conn, err := db.Open(ctx, cfg.Data, logg)
	requireResource(ctx, logg, "database", err)
	defer func() { _ = db.Close(conn) }()

	sqlDB, err := conn.DB()
	requireResource(ctx, logg, "sql database", err)

	switch *cmd {
	case "up", "down", "status":
		if cfg.Data.Driver != config.DriverPostgres {
			fmt.Fprintf(os.Stderr, "sql migrations target postgres; use DATA_AUTO_MIGRATE for %s\n", cfg.Data.Driver)
			os.Exit(1)
		}
		if err := migrate.Run(ctx, sqlDB, *cmd); err != nil {
			fmt.Fprintf(os.Stderr, "goose %s failed: %v\n", *cmd, err)
			os.Exit(1)
		}

	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *version); err != nil {
			fmt.Fprintf(os.Stderr, "goose version migrate failed: %v\n", err)
			os.Exit(1)
		}

	case "prune-sessions":
		n, err := authadapters.NewSessionGorm(conn).DeleteExpired(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prune sessions failed: %v\n", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "count", n), "expired sessions pruned")

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
