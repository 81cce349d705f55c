// Package cache keeps successful county lookups in Redis.
//
// Only non-empty results are stored; a miss, a decoding problem or an
// unreachable Redis all fall back to the database. A nil *LookupCache is a
// valid, permanently empty cache.
//
// Keys carry a dataset version derived from the data_imports ledger, so a
// process started after a re-import never reads entries written against
// the previous tables, even though Redis outlives the process.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"time"

	"github.com/deppfellow/countyhealth/internal/config"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keySegment = "county_data"
	scanBatch  = 500

	// UnversionedDataset is the version used before any import is recorded.
	UnversionedDataset = "none"
)

// LookupCache stores county lookup results keyed by ZIP and measure.
type LookupCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix  string
	version string
	logger  *zerolog.Logger
}

// New returns a cache backed by client, or nil when caching is disabled or
// no client is available.
func New(client redis.UniversalClient, cfg config.CacheConfig, logger *zerolog.Logger) *LookupCache {
	if !cfg.Enabled || client == nil {
		return nil
	}
	return &LookupCache{
		client:  client,
		ttl:     cfg.TTL,
		prefix:  cfg.Prefix,
		version: UnversionedDataset,
		logger:  logger,
	}
}

// WithVersion returns a copy of the cache that reads and writes under the
// given dataset version.
func (lc *LookupCache) WithVersion(version string) *LookupCache {
	if lc == nil {
		return nil
	}
	scoped := *lc
	scoped.version = version
	return &scoped
}

// Version reports the dataset version keys are written under.
func (lc *LookupCache) Version() string {
	if lc == nil {
		return ""
	}
	return lc.version
}

// DatasetVersion fingerprints the latest import of every table. Any new
// import changes the result.
func DatasetVersion(imports []model.DataImport) string {
	if len(imports) == 0 {
		return UnversionedDataset
	}

	sorted := make([]model.DataImport, len(imports))
	copy(sorted, imports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TableName < sorted[j].TableName
	})

	h := fnv.New64a()
	for _, imp := range sorted {
		_, _ = h.Write([]byte(imp.TableName))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(strconv.FormatInt(imp.ImportedAt.UnixNano(), 10)))
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Key builds the Redis key for a lookup.
//
//	countyhealth:county_data:9f1c2e07a4b3d511:02138:Adult obesity
func Key(prefix, version, zip, measure string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", prefix, keySegment, version, zip, measure)
}

// Pattern matches every lookup key under prefix, whatever its version.
func Pattern(prefix string) string {
	return fmt.Sprintf("%s:%s:*", prefix, keySegment)
}

// Get returns the cached rows for zip and measure. The boolean is false on
// a miss and on any Redis or decoding error.
func (lc *LookupCache) Get(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, bool) {
	if lc == nil {
		return nil, false
	}

	raw, err := lc.client.Get(ctx, Key(lc.prefix, lc.version, zip, measure)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			lc.logger.Warn().Err(err).Str("zip", zip).Msg("lookup cache read failed")
		}
		return nil, false
	}

	var records []model.CountyHealthRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		lc.logger.Warn().Err(err).Str("zip", zip).Msg("discarding undecodable cache entry")
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}

	return records, true
}

// Set stores rows for zip and measure. Empty results are never cached.
func (lc *LookupCache) Set(ctx context.Context, zip, measure string, records []model.CountyHealthRecord) {
	if lc == nil || len(records) == 0 {
		return
	}

	raw, err := json.Marshal(records)
	if err != nil {
		lc.logger.Warn().Err(err).Msg("failed to encode lookup for cache")
		return
	}

	if err := lc.client.Set(ctx, Key(lc.prefix, lc.version, zip, measure), raw, lc.ttl).Err(); err != nil {
		lc.logger.Warn().Err(err).Str("zip", zip).Msg("lookup cache write failed")
	}
}

// Purge deletes every cached lookup and reports how many keys were removed.
func (lc *LookupCache) Purge(ctx context.Context) (int64, error) {
	if lc == nil {
		return 0, nil
	}

	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := lc.client.Scan(ctx, cursor, Pattern(lc.prefix), scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("scan cached lookups: %w", err)
		}

		if len(keys) > 0 {
			n, err := lc.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete cached lookups: %w", err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
