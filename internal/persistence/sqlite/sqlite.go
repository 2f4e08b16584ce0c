// Package sqlite stores slots and reservations in SQLite.
package sqlite

import (
	"context"
	"embed"
	"log/slog"

	"github.com/example/community-slots/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage bundles the SQLite repositories over one connection pool.
type Storage struct {
	*SlotRepository
	*ReservationRepository

	pool   *ConnectionPool
	logger *slog.Logger
}

// Open returns storage for the database at dsn. ":memory:" selects a private
// in-memory database.
func Open(dsn string) (*Storage, error) {
	config := migration.DefaultSQLiteConfig(dsn)
	if dsn == ":memory:" {
		config = migration.InMemorySQLiteConfig()
	}
	return OpenWithConfig(config, nil)
}

// OpenWithConfig returns storage for config. A nil logger discards output.
func OpenWithConfig(config migration.SQLiteConfig, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := NewConnectionPool(config, logger)
	if err != nil {
		return nil, err
	}

	return &Storage{
		SlotRepository:        NewSlotRepository(pool),
		ReservationRepository: NewReservationRepository(pool),
		pool:                  pool,
		logger:                logger,
	}, nil
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.pool.DB()),
		s.logger,
	)
	return manager.RunMigrations(ctx)
}
