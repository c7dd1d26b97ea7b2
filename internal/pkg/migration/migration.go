// Package migration applies the embedded schema migrations with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var files embed.FS

var (
	// ErrDSNRequired is returned when no database URL is given.
	ErrDSNRequired = errors.New("migration: dsn is required")
	// ErrInvalidDirection is returned for anything other than up or down.
	ErrInvalidDirection = errors.New("migration: direction must be up or down")
)

const (
	Up   = "up"
	Down = "down"
)

// Run migrates the database at dsn in the given direction. Being already at
// the target version is not an error.
func Run(dsn, direction string) error {
	if dsn == "" {
		return ErrDSNRequired
	}
	if direction != Up && direction != Down {
		return fmt.Errorf("%w, got %q", ErrInvalidDirection, direction)
	}

	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s: %w", direction, err)
	}

	return nil
}

// Version reports the applied version and whether the last run left it dirty.
func Version(dsn string) (uint, bool, error) {
	if dsn == "" {
		return 0, false, ErrDSNRequired
	}

	m, err := newMigrate(dsn)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return v, dirty, err
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}

	return m, nil
}
