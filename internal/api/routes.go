package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	projectGroup := router.Group("/project")
	{
		projectGroup.POST("/generate", h.GenerateSite)
	}

	cacheGroup := router.Group("/cache")
	{
		cacheGroup.GET("", h.ListCache)
		cacheGroup.DELETE("/:key", h.InvalidateCache)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
