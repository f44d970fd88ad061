// Package migrations embeds the SQL migration files applied at startup.
package migrations

import "embed"

// FS exposes the embedded migration files to the iofs migrate source.
//
//go:embed *.sql
var FS embed.FS
