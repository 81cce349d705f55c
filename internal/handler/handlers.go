package handler

import (
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/deppfellow/countyhealth/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Index      *IndexHandler
	CountyData *CountyDataHandler
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Index:      NewIndexHandler(s),
		CountyData: NewCountyDataHandler(s, services.County),
		Health:     NewHealthHandler(s, services.Status),
		OpenAPI:    NewOpenAPIHandler(s),
	}
}
