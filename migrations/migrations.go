// Package migrations holds the SQL schema of the account store for both
// supported drivers.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SqliteDir   = "sqlite"
)
