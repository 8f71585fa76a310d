package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"warehouse-manager/internal/db/migrations"
)

// RunMigrations applies the embedded goose migrations that are still pending.
func RunMigrations(ctx context.Context, db *sqlx.DB, log zerolog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrations").Logger()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	log zerolog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error().Msgf(format, v...)
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info().Msgf(format, v...)
}
