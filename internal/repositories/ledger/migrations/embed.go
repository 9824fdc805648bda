// Package migrations holds the embedded ledger schemas.
package migrations

import "embed"

// SQLite contains the SQLite ledger migrations.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres contains the Postgres ledger migrations.
//
//go:embed postgres/*.sql
var Postgres embed.FS
