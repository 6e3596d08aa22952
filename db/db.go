// Package db embeds the SQL migrations so binaries and tests share one copy.
package db

import "embed"

// Migrations holds the *.up.sql and *.down.sql files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
