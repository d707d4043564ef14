package migration

import "embed"

// Up-only migrations. Rollbacks are handled by restoring from backup,
// not by down scripts.
//
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"
