package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"VectorRAG/pkg/ratelimiter"
)

// RateLimitMiddleware throttles requests per client address using the given
// keyed limiter. A nil limiter disables throttling.
func RateLimitMiddleware(limiter *ratelimiter.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.AllowKey(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RegisterRoutes registers all the routes for the RAG service.
func RegisterRoutes(router *gin.Engine, api *API, limiter *ratelimiter.KeyedLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// All routes live under /api/v1
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiter))
	{
		v1.POST("/documents", api.IngestDocumentHandler)
		v1.POST("/documents/pdf", api.UploadPDFHandler)
		v1.GET("/query", api.QueryHandler)
	}
}
