package handler

import (
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
)

// IndexResponse documents the API at GET /.
type IndexResponse struct {
	Message            string            `json:"message"`
	Endpoints          map[string]string `json:"endpoints"`
	RequiredParameters []string          `json:"required_parameters"`
	ValidMeasures      []string          `json:"valid_measures"`
}

type IndexHandler struct {
	Handler
}

func NewIndexHandler(s *server.Server) *IndexHandler {
	return &IndexHandler{
		Handler: NewHandler(s),
	}
}

func (h *IndexHandler) GetIndex(c echo.Context, _ *EmptyRequest) (*IndexResponse, error) {
	return &IndexResponse{
		Message: "County Health Data API",
		Endpoints: map[string]string{
			"POST /county_data": "Get county health data by ZIP code and measure name",
			"GET /status":       "Service and dataset health",
			"GET /docs":         "Interactive API documentation",
		},
		RequiredParameters: []string{"zip", "measure_name"},
		ValidMeasures:      model.Measures,
	}, nil
}
