package clients

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	clients := router.Group("/clients")
	clients.Use(authMiddleware)
	{
		clients.GET("", handler.ListClients)
		clients.GET("/:id", handler.GetClient)
	}
}
