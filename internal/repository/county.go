package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/jackc/pgx/v5"
)

// countyDataQuery joins a ZIP's county rows to the requested measure.
// Row order is whatever the store yields; no ORDER BY is applied.
const countyDataQuery = `
SELECT
	COALESCE(chr.fipscode, ''),
	COALESCE(chr.state, ''),
	COALESCE(chr.county, ''),
	COALESCE(chr.state_code, ''),
	COALESCE(chr.county_code, ''),
	COALESCE(chr.year_span, ''),
	COALESCE(chr.measure_id, ''),
	COALESCE(chr.measure_name, ''),
	COALESCE(chr.numerator, ''),
	COALESCE(chr.denominator, ''),
	COALESCE(chr.raw_value, ''),
	COALESCE(chr.confidence_interval_lower_bound, ''),
	COALESCE(chr.confidence_interval_upper_bound, ''),
	COALESCE(chr.data_release_year, '')
FROM zip_county zc
JOIN county_health_rankings chr
	ON zc.state_code = chr.state_code
	AND zc.county_code = chr.county_code
WHERE zc.zip = $1 AND chr.measure_name = $2`

type CountyDataRepository struct {
	server *server.Server
}

func NewCountyDataRepository(s *server.Server) *CountyDataRepository {
	return &CountyDataRepository{server: s}
}

// FindCountyData returns every county-health row for zip and measure.
//
// A connection is borrowed from the pool for the duration of the call and
// released on every path. An empty, non-nil slice means no match.
func (r *CountyDataRepository) FindCountyData(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, error) {
	conn, err := r.server.DB.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, countyDataQuery, zip, measure)
	if err != nil {
		return nil, fmt.Errorf("query county data: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanCountyHealthRecord)
	if err != nil {
		return nil, fmt.Errorf("scan county data: %w", err)
	}
	if records == nil {
		records = []model.CountyHealthRecord{}
	}

	return records, nil
}

func scanCountyHealthRecord(row pgx.CollectableRow) (model.CountyHealthRecord, error) {
	var rec model.CountyHealthRecord
	err := row.Scan(
		&rec.FIPSCode,
		&rec.State,
		&rec.County,
		&rec.StateCode,
		&rec.CountyCode,
		&rec.YearSpan,
		&rec.MeasureID,
		&rec.MeasureName,
		&rec.Numerator,
		&rec.Denominator,
		&rec.RawValue,
		&rec.ConfidenceIntervalLowerBound,
		&rec.ConfidenceIntervalUpperBound,
		&rec.DataReleaseYear,
	)
	return rec, err
}
