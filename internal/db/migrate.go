package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations. Safe to run on every
// startup; a fully migrated database is not an error.
func Migrate(dbURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")

	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgxURL(dbURL))

	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}

	defer m.Close()

	err = m.Up()

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// golang-migrate selects its driver from the URL scheme.
func pgxURL(dbURL string) string {
	const prefix = "postgres://"

	if len(dbURL) > len(prefix) && dbURL[:len(prefix)] == prefix {
		return "pgx5://" + dbURL[len(prefix):]
	}

	return dbURL
}
