package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	sql  string
	args []any
	err  error
}

func (r *recordingDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	r.args = arguments
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func TestInsertDataImport(t *testing.T) {
	importedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &recordingDB{}

	err := InsertDataImport(context.Background(), db, model.DataImport{
		TableName:   "zip_county",
		SourceFile:  "/data/zip_county.csv",
		ColumnCount: 9,
		RowCount:    54000,
		ImportedAt:  importedAt,
	})
	require.NoError(t, err)

	assert.Contains(t, db.sql, "INSERT INTO data_imports")
	assert.Equal(t, []any{"zip_county", "/data/zip_county.csv", 9, int64(54000), importedAt}, db.args)
}

func TestInsertDataImport_Error(t *testing.T) {
	db := &recordingDB{err: errors.New("connection reset")}

	err := InsertDataImport(context.Background(), db, model.DataImport{TableName: "zip_county"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record import of zip_county")
}

func TestCountyDataQuery(t *testing.T) {
	assert.Contains(t, countyDataQuery, "zc.state_code = chr.state_code")
	assert.Contains(t, countyDataQuery, "zc.county_code = chr.county_code")
	assert.Contains(t, countyDataQuery, "WHERE zc.zip = $1 AND chr.measure_name = $2")
	assert.NotContains(t, countyDataQuery, "ORDER BY")
}
