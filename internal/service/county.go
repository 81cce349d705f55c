package service

import (
	"context"

	"github.com/deppfellow/countyhealth/internal/cache"
	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CountyDataStore reads joined county-health rows.
type CountyDataStore interface {
	FindCountyData(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, error)
}

// LookupCache stores successful lookups. Implementations swallow their own
// errors; a failed read is a miss.
type LookupCache interface {
	Get(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, bool)
	Set(ctx context.Context, zip, measure string, records []model.CountyHealthRecord)
}

// NewDatasetCache scopes lc to the dataset currently recorded in ledger.
// Entries cached against an earlier import are never read back. A nil lc
// yields a nil cache.
func NewDatasetCache(ctx context.Context, lc *cache.LookupCache, ledger ImportLedger) (LookupCache, error) {
	if lc == nil {
		return nil, nil
	}

	imports, err := ledger.LatestImports(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read import ledger for cache version")
	}

	return lc.WithVersion(cache.DatasetVersion(imports)), nil
}

type CountyService struct {
	store  CountyDataStore
	cache  LookupCache
	logger *zerolog.Logger
}

// NewCountyService builds the lookup service. lc may be nil.
func NewCountyService(store CountyDataStore, lc LookupCache, logger *zerolog.Logger) *CountyService {
	return &CountyService{
		store:  store,
		cache:  lc,
		logger: logger,
	}
}

// Lookup returns the county-health rows for an already validated zip and
// measure, or a 404 HTTPError when the join is empty.
func (s *CountyService) Lookup(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, error) {
	if s.cache != nil {
		if records, ok := s.cache.Get(ctx, zip, measure); ok {
			s.logger.Debug().Str("zip", zip).Str("measure_name", measure).Msg("lookup served from cache")
			return records, nil
		}
	}

	records, err := s.store.FindCountyData(ctx, zip, measure)
	if err != nil {
		return nil, errors.Wrap(err, "find county data")
	}

	if len(records) == 0 {
		code := errs.CodeNotFound
		return nil, errs.NewNotFoundError(errs.MessageNoData, &code)
	}

	if s.cache != nil {
		s.cache.Set(ctx, zip, measure, records)
	}

	return records, nil
}
