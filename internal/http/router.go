package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	gifs := NewGifsController(cfg.GifTags, cfg.Auditor)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Bot endpoints
	router.GET("/search", gifs.Search)
	router.GET("/user/:tg_user_id/tags", gifs.GetUserTags)
	router.GET("/user/:tg_user_id/gif/:gif_id", gifs.GetUserGif)
	router.PUT("/user/:tg_user_id/gif/:gif_id", gifs.SetUserGifTags)
	router.DELETE("/user/:tg_user_id/gif/:gif_id", gifs.DeleteUserGifTags)

	// Maintenance endpoints
	if cfg.Cleaner != nil || cfg.TaskQueue != nil {
		tagsController := NewTagsController(cfg.Cleaner, cfg.TaskQueue)
		router.POST("/api/admin/tags/cleanup", tagsController.CleanupOrphanTags)
	}
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
