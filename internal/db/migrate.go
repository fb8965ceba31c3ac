package db

import (
	"adbridge/migrations"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigratePostgres applies the embedded postgres migrations to the database
// at connString.
func MigratePostgres(connString string) error {
	source, err := iofs.New(migrations.FS, migrations.PostgresDir)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, connString)
	if err != nil {
		return fmt.Errorf("could not connect to DB for applying migrations: %w", err)
	}
	defer m.Close()
	return up(m)
}

// MigrateSqlite applies the embedded sqlite migrations to db. db stays open.
func MigrateSqlite(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, migrations.SqliteDir)
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	// Closing m would close db as well.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}
	return up(m)
}

func up(m *migrate.Migrate) error {
	err := m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply DB migrations: %w", err)
	}
	return nil
}
