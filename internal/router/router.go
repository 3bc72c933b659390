package router

import (
	"github.com/gin-gonic/gin"

	"actas/internal/handler"
	"actas/internal/metrics"
	"actas/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	documentH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
	m *metrics.Metrics,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if m != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := r.Group("/api/v1")

	docs := v1.Group("/documents")
	docs.POST("", documentH.Create)
	docs.GET("", documentH.List)
	docs.GET("/:id", documentH.GetByID)
	docs.GET("/:id/results", documentH.Results)
	docs.GET("/:id/export", documentH.Export)
	docs.GET("/:id/artifact-url", documentH.ArtifactURL)

	return r
}
