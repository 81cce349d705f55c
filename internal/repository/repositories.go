package repository

import (
	"github.com/deppfellow/countyhealth/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	CountyData  *CountyDataRepository
	DataImports *DataImportRepository
}

// NewRepositories constructs the repository container over s.DB.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		CountyData:  NewCountyDataRepository(s),
		DataImports: NewDataImportRepository(s),
	}
}
