package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	indexHealth := s.checkSearchIndex()
	components["search"] = indexHealth
	if indexHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if indexHealth.Status == "degraded" {
		overall = "degraded"
	}

	catalogHealth := s.checkCatalogOutput()
	components["catalog"] = catalogHealth
	if catalogHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if catalogHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	// Serving without an index is allowed; search endpoints return 503.
	if s.index == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "search index not built",
		}
	}

	start := time.Now()
	docCount, err := s.index.Count()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	// Index is accessible but might be empty (degraded after a reset).
	if docCount == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "search index empty",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkCatalogOutput verifies the built catalog page exists in the output dir.
func (s *Server) checkCatalogOutput() ComponentHealth {
	if s.outputDir == "" {
		return ComponentHealth{
			Status:  "degraded",
			Message: "output directory not configured",
		}
	}

	if _, err := os.Stat(filepath.Join(s.outputDir, "catalog.html")); err != nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "catalog.html not found; run build first",
		}
	}

	return ComponentHealth{Status: "healthy"}
}
