package migrations

import "embed"

// FS contains embedded SQLite migrations for the creature catalog.
//
//go:embed *.sql
var FS embed.FS
