package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
	"github.com/asachdeva-dev/shopfront-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	var (
		cmd     = flag.String("cmd", "up", "migration command: up, down, status, version, to, create, validate")
		dir     = flag.String("dir", migrate.DefaultDir, "directory holding SQL migrations")
		name    = flag.String("name", "", "migration name (required for create)")
		version = flag.String("version", "", "target version (required for to)")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	// create and validate work on files only, no DB needed.
	switch *cmd {
	case "create":
		requireResource(logg, *name, "-name is required for create")
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail(logg, "failed to create migration", err)
		}
		logg.Info(logg.WithField(ctx, "path", path), "migration created")
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail(logg, "migration directory is invalid", err)
		}
		logg.Info(logg.WithField(ctx, "dir", *dir), "migration directory is valid")
		return
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fail(logg, "failed to load config", err)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fail(logg, "failed to connect to database", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		fail(logg, "failed to unwrap sql.DB", err)
	}

	switch *cmd {
	case "up", "down", "status", "version":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fail(logg, fmt.Sprintf("migration %s failed", *cmd), err)
		}
	case "to":
		requireResource(logg, *version, "-version is required for to")
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fail(logg, "migration to version failed", err)
		}
	default:
		fail(logg, fmt.Sprintf("unknown command %q", *cmd), nil)
	}

	logg.Info(logg.WithField(ctx, "cmd", *cmd), "migration command finished")
}

func requireResource(logg *logger.Logger, value, msg string) {
	if value == "" {
		fail(logg, msg, nil)
	}
}

func fail(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
