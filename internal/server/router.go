package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP surface: a public enhance endpoint, the
// secret-guarded build endpoint for the workflow engine, and a health check.
func NewRouter(h *Handler, log *zap.Logger, internalSecret string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(log))
	r.Use(cors.Default())

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/enhance", h.Enhance)
		api.POST("/build-docx", requireInternalSecret(internalSecret), h.Build)
	}

	return r
}
