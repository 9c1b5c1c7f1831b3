package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/voxnav/internal/db/migrations"
)

// RunMigrations applies the embedded terrain and spawn migrations to dsn
// and returns the resulting schema version.
func RunMigrations(ctx context.Context, dsn string) (int64, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return 0, fmt.Errorf("running migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	slog.Info("database schema up to date", "version", version)
	return version, nil
}
