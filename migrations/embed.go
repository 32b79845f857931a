// Package migrations embeds the SQLite schema for the tracked message store.
package migrations

import "embed"

// FS holds the numbered up/down migrations applied by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
