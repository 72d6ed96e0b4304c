package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// builds a migrator over the embedded migrations
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// applies every pending migration; already being current is not an error
func RunMigrations(databaseURL string) error {
	return Migrate(databaseURL, "up", 0)
}

// applies migrations in the given direction; steps of zero means all pending (up only)
func Migrate(databaseURL, direction string, steps int) error {
	var apply func(m *migrate.Migrate) error

	switch {
	case direction == "up" && steps == 0:
		apply = func(m *migrate.Migrate) error { return m.Up() }
	case direction == "up" && steps > 0:
		apply = func(m *migrate.Migrate) error { return m.Steps(steps) }
	case direction == "down" && steps > 0:
		apply = func(m *migrate.Migrate) error { return m.Steps(-steps) }
	default:
		return fmt.Errorf("unsupported migration request: direction=%s steps=%d", direction, steps)
	}

	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // best-effort cleanup

	if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// rewrites postgres URLs onto the pgx/v5 migrate driver scheme
func MigrationURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}

	return databaseURL
}
