package pgx

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/jrlim/moat/migrations"
)

// RunMigrations applies the embedded goose migrations. The *sql.DB can
// be derived from the pool with pgx's stdlib bridge.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
