package controller

import (
	"net/http"
	"strconv"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LessonsHandler эндпоинты группы /lessons
type LessonsHandler struct {
	lessons  *service.LessonService
	topics   *service.TopicService
	payments *service.PaymentService
	logger   *zap.Logger
}

func NewLessonsHandler(
	lessons *service.LessonService,
	topics *service.TopicService,
	payments *service.PaymentService,
	logger *zap.Logger,
) *LessonsHandler {
	return &LessonsHandler{
		lessons:  lessons,
		topics:   topics,
		payments: payments,
		logger:   logger,
	}
}

// List GET /lessons/
func (h *LessonsHandler) List(c *gin.Context) {
	user := currentUser(c)

	page, perPage, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong parameters passed."})
		return
	}

	lessons, total, err := h.lessons.List(c.Request.Context(), user, c.Request.URL.Query(), perPage, (page-1)*perPage)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if lessons == nil {
		lessons = []*model.Lesson{}
	}

	c.JSON(http.StatusOK, pageEnvelope(c, lessons, page, perPage, total))
}

// Create POST /lessons/
func (h *LessonsHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var payload service.LessonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong parameters passed."})
		return
	}

	lesson, err := h.lessons.Create(c.Request.Context(), user, payload)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": lesson})
}

// Get GET /lessons/:id
func (h *LessonsHandler) Get(c *gin.Context) {
	user := currentUser(c)

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(c.Request.Context(), user, lessonID)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lesson})
}

// Update POST /lessons/:id
func (h *LessonsHandler) Update(c *gin.Context) {
	user := currentUser(c)

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	var payload service.LessonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong parameters passed."})
		return
	}

	lesson, err := h.lessons.Update(c.Request.Context(), user, lessonID, payload)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson updated successfully.", "data": lesson})
}

// Delete DELETE /lessons/:id
func (h *LessonsHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	if err := h.lessons.Delete(c.Request.Context(), user, lessonID); err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted successfully."})
}

// Approve GET /lessons/:id/approve
func (h *LessonsHandler) Approve(c *gin.Context) {
	user := currentUser(c)

	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	if _, err := h.lessons.Approve(c.Request.Context(), user, lessonID); err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson approved."})
}

// Topics GET /lessons/:id/topics
func (h *LessonsHandler) Topics(c *gin.Context) {
	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	var studentID int64
	if raw := c.Query("student_id"); raw != "" {
		studentID, _ = strconv.ParseInt(raw, 10, 64)
	}

	progress, err := h.topics.LessonTopics(c.Request.Context(), lessonID, studentID)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// SubmitTopics POST /lessons/:id/topics
func (h *LessonsHandler) SubmitTopics(c *gin.Context) {
	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	var payload struct {
		Topics map[string][]int64 `json:"topics"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Topics == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong parameters passed."})
		return
	}

	lesson, err := h.topics.SubmitTopics(c.Request.Context(), lessonID, payload.Topics)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": lesson})
}

// Payments GET /lessons/payments
func (h *LessonsHandler) Payments(c *gin.Context) {
	user := currentUser(c)

	page, perPage, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong parameters passed."})
		return
	}

	payments, total, err := h.payments.List(c.Request.Context(), user, c.Request.URL.Query(), perPage, (page-1)*perPage)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if payments == nil {
		payments = []*model.Payment{}
	}

	c.JSON(http.StatusOK, pageEnvelope(c, payments, page, perPage, total))
}

// lessonIDParam разбирает :id из пути, при ошибке сам пишет ответ
func lessonIDParam(c *gin.Context) (int64, bool) {
	lessonID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || lessonID < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Lesson does not exist"})
		return 0, false
	}
	return lessonID, true
}
