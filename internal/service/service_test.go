package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records []model.CountyHealthRecord
	err     error
	calls   int
}

func (f *fakeStore) FindCountyData(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, error) {
	f.calls++
	return f.records, f.err
}

type memoryCache struct {
	entries map[string][]model.CountyHealthRecord
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]model.CountyHealthRecord{}}
}

func (m *memoryCache) Get(ctx context.Context, zip, measure string) ([]model.CountyHealthRecord, bool) {
	records, ok := m.entries[zip+"|"+measure]
	return records, ok
}

func (m *memoryCache) Set(ctx context.Context, zip, measure string, records []model.CountyHealthRecord) {
	m.entries[zip+"|"+measure] = records
}

var middlesex = model.CountyHealthRecord{
	FIPSCode:    "25017",
	State:       "MA",
	County:      "Middlesex County",
	StateCode:   "25",
	CountyCode:  "017",
	MeasureName: model.MeasureAdultObesity,
	RawValue:    "0.22",
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestCountyService_Lookup(t *testing.T) {
	t.Run("returns rows", func(t *testing.T) {
		store := &fakeStore{records: []model.CountyHealthRecord{middlesex}}
		svc := NewCountyService(store, nil, nopLogger())

		records, err := svc.Lookup(context.Background(), "02138", model.MeasureAdultObesity)
		require.NoError(t, err)
		assert.Equal(t, []model.CountyHealthRecord{middlesex}, records)
	})

	t.Run("empty join is not found", func(t *testing.T) {
		svc := NewCountyService(&fakeStore{records: []model.CountyHealthRecord{}}, nil, nopLogger())

		_, err := svc.Lookup(context.Background(), "99999", model.MeasureAdultObesity)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, errs.MessageNoData, httpErr.Message)
		assert.Equal(t, errs.CodeNotFound, httpErr.Code)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		svc := NewCountyService(&fakeStore{err: cause}, nil, nopLogger())

		_, err := svc.Lookup(context.Background(), "02138", model.MeasureAdultObesity)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)

		var httpErr *errs.HTTPError
		assert.False(t, errors.As(err, &httpErr))
	})

	t.Run("cache read through", func(t *testing.T) {
		store := &fakeStore{records: []model.CountyHealthRecord{middlesex}}
		cache := newMemoryCache()
		svc := NewCountyService(store, cache, nopLogger())

		for i := 0; i < 3; i++ {
			records, err := svc.Lookup(context.Background(), "02138", model.MeasureAdultObesity)
			require.NoError(t, err)
			assert.Len(t, records, 1)
		}
		assert.Equal(t, 1, store.calls)
	})

	t.Run("not found is never cached", func(t *testing.T) {
		store := &fakeStore{records: nil}
		cache := newMemoryCache()
		svc := NewCountyService(store, cache, nopLogger())

		for i := 0; i < 2; i++ {
			_, err := svc.Lookup(context.Background(), "99999", model.MeasureAdultObesity)
			require.Error(t, err)
		}
		assert.Equal(t, 2, store.calls)
		assert.Empty(t, cache.entries)
	})
}

type fakeLedger struct {
	tables  map[string]bool
	imports []model.DataImport
	err     error
}

func (f *fakeLedger) LatestImports(ctx context.Context) ([]model.DataImport, error) {
	return f.imports, f.err
}

func (f *fakeLedger) TableExists(ctx context.Context, name string) (bool, error) {
	return f.tables[name], f.err
}

func TestStatusService_DatasetStatus(t *testing.T) {
	imported := model.DataImport{
		TableName:   model.TableZipCounty,
		SourceFile:  "zip_county.csv",
		ColumnCount: 9,
		RowCount:    10,
		ImportedAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("ready", func(t *testing.T) {
		svc := NewStatusService(&fakeLedger{
			tables:  map[string]bool{model.TableZipCounty: true, model.TableCountyHealthRankings: true},
			imports: []model.DataImport{imported},
		})

		status, err := svc.DatasetStatus(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Ready)
		assert.Equal(t, []model.DataImport{imported}, status.Imports)
	})

	t.Run("missing table", func(t *testing.T) {
		svc := NewStatusService(&fakeLedger{
			tables: map[string]bool{model.TableZipCounty: true},
		})

		status, err := svc.DatasetStatus(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Ready)
		assert.False(t, status.Tables[model.TableCountyHealthRankings])
	})

	t.Run("store failure", func(t *testing.T) {
		svc := NewStatusService(&fakeLedger{err: errors.New("down")})

		_, err := svc.DatasetStatus(context.Background())
		assert.Error(t, err)
	})
}
