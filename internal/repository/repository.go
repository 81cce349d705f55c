// Package repository handles all interactions with the database.
//
// It contains the raw SQL for the county lookup and the import ledger,
// keeping SQL out of the service layer. Imported tables are all-TEXT, so
// nullable columns are coalesced to "" here rather than in callers.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgx.Conn, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}
