// Package migrations embeds the goose schema migrations for the local
// SQLite database used by the CLI.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
