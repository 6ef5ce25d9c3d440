package compose

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/nexcrm/internal/pkg/ratelimit"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc, limiter *ratelimit.RateLimiter) {
	limit := ratelimit.UserBasedMiddleware(limiter)

	router.POST("/tasks/:taskId/compose", authMiddleware, limit, handler.OpenSession)

	compose := router.Group("/compose")
	compose.Use(authMiddleware, limit)
	{
		compose.GET("/:sessionId", handler.GetState)
		compose.PUT("/:sessionId/text", handler.UpdateText)
		compose.POST("/:sessionId/select", handler.SelectCandidate)
		compose.POST("/:sessionId/submit", handler.Submit)
		compose.DELETE("/:sessionId", handler.Cancel)
	}
}
