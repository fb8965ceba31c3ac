package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// WAL mode so that reads and writes don't block each other, a busy timeout
// and immediate transactions to avoid lock upgrade deadlocks.
const sqliteOptions = "_foreign_keys=on&_journal_mode=wal&_busy_timeout=5000&_txlock=immediate"

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteOptions
	}
	return path + "?" + sqliteOptions
}

// OpenSqlite opens a single-connection pool, so an in-memory database is
// shared by every caller.
func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return db, nil
}
