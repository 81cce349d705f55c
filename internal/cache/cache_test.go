package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/countyhealth/internal/config"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var middlesex = model.CountyHealthRecord{
	FIPSCode:    "25017",
	State:       "MA",
	County:      "Middlesex County",
	StateCode:   "25",
	CountyCode:  "017",
	MeasureName: model.MeasureAdultObesity,
	RawValue:    "0.22",
}

func newTestCache(t *testing.T) (*LookupCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	lc := New(client, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "countyhealth"}, &logger)
	return lc, mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "countyhealth:county_data:v1:02138:Adult obesity", Key("countyhealth", "v1", "02138", "Adult obesity"))
	assert.Equal(t, "countyhealth:county_data:*", Pattern("countyhealth"))
}

func TestNew_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Nil(t, New(client, config.CacheConfig{Enabled: false}, &logger))
	assert.Nil(t, New(nil, config.CacheConfig{Enabled: true}, &logger))

	lc := New(client, config.CacheConfig{Enabled: true, Prefix: "p"}, &logger)
	require.NotNil(t, lc)
	assert.Equal(t, UnversionedDataset, lc.Version())
}

func TestNilCacheIsEmpty(t *testing.T) {
	var lc *LookupCache
	ctx := context.Background()

	records, ok := lc.Get(ctx, "02138", model.MeasureAdultObesity)
	assert.False(t, ok)
	assert.Nil(t, records)

	lc.Set(ctx, "02138", model.MeasureAdultObesity, []model.CountyHealthRecord{{County: "Middlesex County"}})

	n, err := lc.Purge(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, lc.WithVersion("v1"))
}

func TestGetSet(t *testing.T) {
	lc, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := lc.Get(ctx, "02138", model.MeasureAdultObesity)
	assert.False(t, ok)

	lc.Set(ctx, "02138", model.MeasureAdultObesity, []model.CountyHealthRecord{middlesex})

	key := Key("countyhealth", UnversionedDataset, "02138", model.MeasureAdultObesity)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	records, ok := lc.Get(ctx, "02138", model.MeasureAdultObesity)
	require.True(t, ok)
	assert.Equal(t, []model.CountyHealthRecord{middlesex}, records)

	t.Run("empty results are not stored", func(t *testing.T) {
		lc.Set(ctx, "99999", model.MeasureAdultObesity, []model.CountyHealthRecord{})
		assert.False(t, mr.Exists(Key("countyhealth", UnversionedDataset, "99999", model.MeasureAdultObesity)))
	})

	t.Run("undecodable entry is a miss", func(t *testing.T) {
		require.NoError(t, mr.Set(Key("countyhealth", UnversionedDataset, "10001", model.MeasureAdultObesity), "not json"))
		_, ok := lc.Get(ctx, "10001", model.MeasureAdultObesity)
		assert.False(t, ok)
	})
}

func TestWithVersionIsolatesEntries(t *testing.T) {
	lc, _ := newTestCache(t)
	ctx := context.Background()

	v1 := lc.WithVersion("v1")
	v2 := lc.WithVersion("v2")

	v1.Set(ctx, "02138", model.MeasureAdultObesity, []model.CountyHealthRecord{middlesex})

	_, ok := v2.Get(ctx, "02138", model.MeasureAdultObesity)
	assert.False(t, ok)

	_, ok = v1.Get(ctx, "02138", model.MeasureAdultObesity)
	assert.True(t, ok)
	assert.Equal(t, UnversionedDataset, lc.Version())
}

func TestPurge(t *testing.T) {
	lc, mr := newTestCache(t)
	ctx := context.Background()

	lc.WithVersion("v1").Set(ctx, "02138", model.MeasureAdultObesity, []model.CountyHealthRecord{middlesex})
	lc.WithVersion("v2").Set(ctx, "02138", model.MeasureAdultObesity, []model.CountyHealthRecord{middlesex})
	lc.WithVersion("v2").Set(ctx, "02139", model.MeasureAdultObesity, []model.CountyHealthRecord{middlesex})
	require.NoError(t, mr.Set("otherapp:county_data:x", "keep"))
	require.NoError(t, mr.Set("countyhealth:unrelated", "keep"))

	removed, err := lc.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	assert.True(t, mr.Exists("otherapp:county_data:x"))
	assert.True(t, mr.Exists("countyhealth:unrelated"))

	_, ok := lc.WithVersion("v2").Get(ctx, "02139", model.MeasureAdultObesity)
	assert.False(t, ok)
}

func TestPurge_RedisDown(t *testing.T) {
	lc, mr := newTestCache(t)
	mr.Close()

	_, err := lc.Purge(context.Background())
	assert.Error(t, err)
}

func TestDatasetVersion(t *testing.T) {
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	zip := model.DataImport{TableName: model.TableZipCounty, ImportedAt: march}
	chr := model.DataImport{TableName: model.TableCountyHealthRankings, ImportedAt: march}
	chrLater := model.DataImport{TableName: model.TableCountyHealthRankings, ImportedAt: april}

	assert.Equal(t, UnversionedDataset, DatasetVersion(nil))
	assert.Equal(t, DatasetVersion([]model.DataImport{zip, chr}), DatasetVersion([]model.DataImport{chr, zip}))
	assert.NotEqual(t, DatasetVersion([]model.DataImport{zip, chr}), DatasetVersion([]model.DataImport{zip, chrLater}))
	assert.NotEqual(t, DatasetVersion([]model.DataImport{zip}), DatasetVersion([]model.DataImport{zip, chr}))
}
