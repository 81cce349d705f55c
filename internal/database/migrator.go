package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// The binary carries its migrations; nothing is read from disk at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable stores the applied migration version.
const VersionTable = "schema_version"

// Migrate runs the embedded migrations on conn using jackc/tern.
//
// Only the importer's own bookkeeping tables are managed here. The imported
// data tables are created by the importer from CSV headers.
func Migrate(ctx context.Context, logger *zerolog.Logger, conn *pgx.Conn) error {
	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
