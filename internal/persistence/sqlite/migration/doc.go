// Package migration applies versioned SQL migrations to a SQLite database.
//
// Migrations are read from an fs.FS, usually an embed.FS compiled into the
// binary, and follow the naming convention {version}_{description}.sql
// (e.g. "001_create_slots.sql"). Applied versions and their checksums are
// tracked in the schema_migrations table; each migration runs in its own
// transaction.
//
// Example usage:
//
//	manager := NewManager(NewScanner(files, "migrations"), NewSQLiteExecutor(db), logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
