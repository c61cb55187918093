package api

import (
	"alcyxob/exercise-tracker/internal/metrics"
	"alcyxob/exercise-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers middleware and every route of the API on router.
// The /metrics endpoint is only exposed when exposeMetrics is set.
func SetupRoutes(
	router *gin.Engine,
	m *metrics.Metrics,
	exposeMetrics bool,
	static *StaticHandler,
	userService service.UserService,
	exerciseService service.ExerciseService,
) {
	userHandler := NewUserHandler(userService, m)
	exerciseHandler := NewExerciseHandler(exerciseService, m)

	router.Use(
		RequestIDMiddleware(),
		LoggerMiddleware(),
		MetricsMiddleware(m),
		CorsMiddleware(),
	)

	router.GET("/", static.Index)
	router.HEAD("/", static.Index)
	router.NoRoute(static.NotFound)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if exposeMetrics {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	users := router.Group("/api/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.POST("/:_id/exercises", exerciseHandler.AddExercise)
		users.GET("/:_id/logs", exerciseHandler.GetLog)
	}
}
