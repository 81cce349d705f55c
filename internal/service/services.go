package service

import (
	"context"
	"time"

	"github.com/deppfellow/countyhealth/internal/cache"
	"github.com/deppfellow/countyhealth/internal/repository"
	"github.com/deppfellow/countyhealth/internal/server"
)

// ledgerReadTimeout bounds the startup read of the import ledger.
const ledgerReadTimeout = 5 * time.Second

type Services struct {
	County *CountyService
	Status *StatusService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ledgerReadTimeout)
	defer cancel()

	lookups, err := NewDatasetCache(ctx, s.Cache, repos.DataImports)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("lookup cache disabled")
	} else if scoped, ok := lookups.(*cache.LookupCache); ok {
		s.Logger.Info().Str("dataset_version", scoped.Version()).Msg("lookup cache enabled")
	}

	return &Services{
		County: NewCountyService(repos.CountyData, lookups, s.Logger),
		Status: NewStatusService(repos.DataImports),
	}, nil
}
