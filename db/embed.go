// Package db carries the SQL migrations so production builds can embed them
// into the binary (see the embed_migrations build tag in cmd/immpresctl).
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
