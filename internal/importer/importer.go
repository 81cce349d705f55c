// Package importer loads a CSV file into a PostgreSQL table.
//
// The table is named after the file (or an explicit override) and has one
// TEXT column per header field. Cells are copied verbatim; "02138" stays
// "02138". Each run replaces the table atomically and appends a row to the
// data_imports ledger.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deppfellow/countyhealth/internal/database"
	"github.com/deppfellow/countyhealth/internal/lib/job"
	"github.com/deppfellow/countyhealth/internal/logger"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/deppfellow/countyhealth/internal/repository"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options describes one import run.
type Options struct {
	DatabaseURL string
	CSVPath     string

	// Table overrides the name derived from CSVPath.
	Table string

	// Indexes lists columns to index after loading.
	Indexes []string

	// NotifyRedis is a Redis address; when set a dataset:refreshed task is
	// enqueued after the import commits.
	NotifyRedis string
}

// Result summarizes a committed import.
type Result struct {
	Table      string
	Columns    []string
	Rows       int64
	ImportedAt time.Time
	Notified   bool
}

// Importer runs CSV imports.
type Importer struct {
	logger *zerolog.Logger
	now    func() time.Time
}

func New(logger *zerolog.Logger) *Importer {
	return &Importer{
		logger: logger,
		now:    time.Now,
	}
}

// plan is everything derived from the file before touching the database.
type plan struct {
	table   string
	columns []string
	indexes []string
	file    *os.File
	source  *csvSource
}

// Run imports opts.CSVPath. Input problems are reported before any
// connection is opened and satisfy errors.Is(err, ErrInvalidInput).
func (im *Importer) Run(ctx context.Context, opts Options) (*Result, error) {
	p, err := im.prepare(opts)
	if err != nil {
		return nil, err
	}
	defer p.file.Close()

	log := im.logger.With().
		Str("table", p.table).
		Str("source", opts.CSVPath).
		Int("columns", len(p.columns)).
		Logger()

	conn, err := im.connect(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.Background())

	if err := database.Migrate(ctx, &log, conn); err != nil {
		return nil, errors.Wrap(err, "migrating import ledger")
	}

	result := &Result{
		Table:      p.table,
		Columns:    p.columns,
		ImportedAt: im.now().UTC(),
	}

	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		rows, err := im.load(ctx, tx, p)
		if err != nil {
			return err
		}
		result.Rows = rows

		return repository.InsertDataImport(ctx, tx, model.DataImport{
			TableName:   p.table,
			SourceFile:  filepath.Base(opts.CSVPath),
			ColumnCount: len(p.columns),
			RowCount:    rows,
			ImportedAt:  result.ImportedAt,
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "importing %s", p.table)
	}

	log.Info().Int64("rows", result.Rows).Msg("import committed")

	if opts.NotifyRedis != "" {
		if err := im.notify(ctx, opts.NotifyRedis, result, filepath.Base(opts.CSVPath)); err != nil {
			return result, errors.Wrap(err, "import committed but refresh notification failed")
		}
		result.Notified = true
		log.Info().Str("redis", opts.NotifyRedis).Msg("enqueued dataset refresh")
	}

	return result, nil
}

// prepare validates the arguments and header and opens the file.
func (im *Importer) prepare(opts Options) (*plan, error) {
	var (
		table string
		err   error
	)
	if opts.Table != "" {
		table, err = TableName(opts.Table)
	} else {
		table, err = TableNameFromPath(opts.CSVPath)
	}
	if err != nil {
		return nil, err
	}

	file, err := os.Open(opts.CSVPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, invalidInput("CSV file %q does not exist", opts.CSVPath)
		}
		return nil, errors.Wrapf(err, "opening %s", opts.CSVPath)
	}

	reader := newCSVReader(file)
	columns, err := readHeader(reader)
	if err != nil {
		file.Close()
		return nil, err
	}

	indexes, err := indexColumns(opts.Indexes, columns)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &plan{
		table:   table,
		columns: columns,
		indexes: indexes,
		file:    file,
		source:  newCSVSource(reader, len(columns)),
	}, nil
}

// indexColumns validates requested index columns against the header.
func indexColumns(requested, columns []string) ([]string, error) {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	indexes := make([]string, 0, len(requested))
	for _, name := range requested {
		column := strings.ToLower(strings.TrimSpace(name))
		if _, ok := known[column]; !ok {
			return nil, invalidInput("cannot index %q: no such column", name)
		}
		indexes = append(indexes, column)
	}
	return indexes, nil
}

func (im *Importer) connect(ctx context.Context, databaseURL string) (*pgx.Conn, error) {
	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, invalidInput("invalid database URL: %v", err)
	}

	level := im.logger.GetLevel()
	cfg.Tracer = &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(logger.NewPgxLogger(level)),
		LogLevel: logger.GetPgxTraceLogLevel(level),
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return conn, nil
}

// load replaces the table and streams the rows into it.
func (im *Importer) load(ctx context.Context, tx pgx.Tx, p *plan) (int64, error) {
	table := pgx.Identifier{p.table}

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+table.Sanitize()); err != nil {
		return 0, errors.Wrap(err, "dropping previous table")
	}

	if _, err := tx.Exec(ctx, CreateTableSQL(p.table, p.columns)); err != nil {
		return 0, errors.Wrap(err, "creating table")
	}

	copied, err := tx.CopyFrom(ctx, table, p.columns, p.source)
	if err != nil {
		return 0, errors.Wrap(err, "copying rows")
	}

	for _, column := range p.indexes {
		if _, err := tx.Exec(ctx, CreateIndexSQL(p.table, column)); err != nil {
			return 0, errors.Wrapf(err, "indexing %s", column)
		}
	}

	return copied, nil
}

func (im *Importer) notify(ctx context.Context, redisAddr string, result *Result, sourceFile string) error {
	publisher := job.NewPublisher(im.logger, redisAddr)
	defer publisher.Close()

	return publisher.PublishDatasetRefreshed(ctx, job.DatasetRefreshedPayload{
		Table:      result.Table,
		SourceFile: sourceFile,
		RowCount:   result.Rows,
		ImportedAt: result.ImportedAt,
	})
}

// CreateTableSQL builds the DDL for an all-TEXT table.
func CreateTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
}

// CreateIndexSQL builds an index on one column; PostgreSQL picks the name.
func CreateIndexSQL(table, column string) string {
	return fmt.Sprintf("CREATE INDEX ON %s (%s)", pgx.Identifier{table}.Sanitize(), pgx.Identifier{column}.Sanitize())
}
