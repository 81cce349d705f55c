package service

import (
	"context"

	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/pkg/errors"
)

// ImportLedger answers questions about what the importer has loaded.
type ImportLedger interface {
	LatestImports(ctx context.Context) ([]model.DataImport, error)
	TableExists(ctx context.Context, name string) (bool, error)
}

// DatasetStatus summarizes whether the lookup tables are ready.
type DatasetStatus struct {
	Ready   bool               `json:"ready"`
	Tables  map[string]bool    `json:"tables"`
	Imports []model.DataImport `json:"imports"`
}

type StatusService struct {
	ledger ImportLedger
}

func NewStatusService(ledger ImportLedger) *StatusService {
	return &StatusService{ledger: ledger}
}

// DatasetStatus reports which lookup tables exist and the latest import of each.
func (s *StatusService) DatasetStatus(ctx context.Context) (*DatasetStatus, error) {
	status := &DatasetStatus{
		Ready:  true,
		Tables: make(map[string]bool, 2),
	}

	for _, table := range []string{model.TableZipCounty, model.TableCountyHealthRankings} {
		exists, err := s.ledger.TableExists(ctx, table)
		if err != nil {
			return nil, errors.Wrap(err, "dataset status")
		}
		status.Tables[table] = exists
		if !exists {
			status.Ready = false
		}
	}

	imports, err := s.ledger.LatestImports(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "dataset status")
	}
	status.Imports = imports

	return status, nil
}
