package main

import (
	"adbridge/internal/config"
	"adbridge/internal/db"
	"fmt"
	"os"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := migrate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations have been applied.")
}

func migrate(cfg *config.Config) error {
	if cfg.StorageDriver != config.StorageSqlite {
		return db.MigratePostgres(cfg.PostgresqlURL)
	}

	sqlite, err := db.OpenSqlite(cfg.SqlitePath)
	if err != nil {
		return err
	}
	defer sqlite.Close()
	return db.MigrateSqlite(sqlite)
}
