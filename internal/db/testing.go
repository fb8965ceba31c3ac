package db

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL and applies migrations.
// Tests are skipped when the variable is not set.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set")
	}
	if err := MigratePostgres(connString); err != nil {
		t.Fatalf("could not apply migrations: %v", err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("could not connect to the database: %v", err)
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE account")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}

// CreateTestSqlite returns an in-memory database with all migrations applied.
func CreateTestSqlite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	if err := MigrateSqlite(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}
