package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/deppfellow/countyhealth/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const insertDataImportQuery = `
INSERT INTO data_imports (table_name, source_file, column_count, row_count, imported_at)
VALUES ($1, $2, $3, $4, $5)`

const latestDataImportsQuery = `
SELECT DISTINCT ON (table_name)
	table_name, source_file, column_count, row_count, imported_at
FROM data_imports
ORDER BY table_name, imported_at DESC`

const tableExistsQuery = `SELECT to_regclass($1) IS NOT NULL`

// InsertDataImport appends a ledger row. The importer calls it inside the
// same transaction that replaced the table.
func InsertDataImport(ctx context.Context, db DBTX, imp model.DataImport) error {
	_, err := db.Exec(ctx, insertDataImportQuery,
		imp.TableName,
		imp.SourceFile,
		imp.ColumnCount,
		imp.RowCount,
		imp.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("record import of %s: %w", imp.TableName, err)
	}
	return nil
}

type DataImportRepository struct {
	server *server.Server
}

func NewDataImportRepository(s *server.Server) *DataImportRepository {
	return &DataImportRepository{server: s}
}

// LatestImports returns the most recent ledger row per table. A database
// that has never seen the importer has no ledger; that yields no rows.
func (r *DataImportRepository) LatestImports(ctx context.Context) ([]model.DataImport, error) {
	rows, err := r.server.DB.Pool.Query(ctx, latestDataImportsQuery)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.UndefinedTable {
			return []model.DataImport{}, nil
		}
		return nil, fmt.Errorf("query data imports: %w", err)
	}

	imports, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.DataImport])
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.UndefinedTable {
			return []model.DataImport{}, nil
		}
		return nil, fmt.Errorf("scan data imports: %w", err)
	}

	return imports, nil
}

// TableExists reports whether name resolves to a relation.
func (r *DataImportRepository) TableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.server.DB.Pool.QueryRow(ctx, tableExistsQuery, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return exists, nil
}
