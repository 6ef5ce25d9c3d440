package comments

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	comments := router.Group("/comments")
	comments.Use(authMiddleware)
	{
		comments.POST("", handler.CreateComment)
		comments.POST("/render", handler.RenderPreview)
		comments.GET("/:id", handler.GetComment)
		comments.DELETE("/:id", handler.DeleteComment)
		comments.GET("/task/:taskId", handler.ListByTask)
		comments.DELETE("/task/:taskId", handler.DeleteByTask)
		comments.GET("/user/:userId", handler.ListByUser)
	}
}
