package db

import (
	"context"
	"database/sql"
	"fmt"

	"crm_backend/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending goose migrations from the given directory.
// It uses a separate database/sql connection because goose does not speak pgx pools.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, dir string) error {
	conn, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer conn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
