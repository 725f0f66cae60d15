package controller

import (
	"net/http"

	"github.com/avtoshkola/driveschool_api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает HTTP-роутер приложения
func NewRouter(
	users *service.UserService,
	lessons *service.LessonService,
	topics *service.TopicService,
	payments *service.PaymentService,
	logger *zap.Logger,
	env string,
) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := NewLessonsHandler(lessons, topics, payments, logger)

	group := router.Group("/lessons", Auth(users, logger))
	{
		group.GET("/", handler.List)
		group.POST("/", handler.Create)
		group.GET("/payments", handler.Payments)
		group.GET("/:id", handler.Get)
		group.POST("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
		group.GET("/:id/approve", TeacherRequired(), handler.Approve)
		group.GET("/:id/topics", handler.Topics)
		group.POST("/:id/topics", TeacherRequired(), handler.SubmitTopics)
	}

	return router
}
