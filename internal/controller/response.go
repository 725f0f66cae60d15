package controller

import (
	"errors"
	"net/http"

	"github.com/avtoshkola/driveschool_api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// renderError отдаёт пользовательские ошибки как есть, остальные прячет за 500
func renderError(c *gin.Context, logger *zap.Logger, err error) {
	var routeErr *service.RouteError
	if errors.As(err, &routeErr) {
		c.JSON(routeErr.Status, gin.H{"message": routeErr.Message})
		return
	}

	logger.Error("Request failed",
		zap.String("request_id", c.GetString(ctxRequestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
}
