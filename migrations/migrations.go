package migrations

import "embed"

// Embedded schema files so deployments apply migrations from the binary.
//
//go:embed postgres/*.sql
var Postgres embed.FS
