package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codecore/internal/service"
)

// CourseHandler mantiene dependencias para el CRUD del catálogo de cursos.
type CourseHandler struct {
	logger     *zap.Logger
	courseServ *service.CourseService
}

func NewCourseHandler(logger *zap.Logger, courseServ *service.CourseService) *CourseHandler {
	return &CourseHandler{
		logger:     logger,
		courseServ: courseServ,
	}
}

func (h *CourseHandler) respondCourseError(c *gin.Context, action string, err error) {
	var fieldErrs service.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"message": action + " failed", "errors": fieldErrs})
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrCompletedNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + action})
	}
}

// ListCourses maneja GET /api/courses/.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseServ.ListCourses(c.Request.Context())
	if err != nil {
		h.respondCourseError(c, "list courses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourse maneja POST /api/courses/.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input service.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid course request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	course, err := h.courseServ.CreateCourse(c.Request.Context(), input)
	if err != nil {
		h.respondCourseError(c, "create course", err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetCourse maneja GET /api/courses/:id/.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseServ.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCourseError(c, "get course", err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse maneja PUT y PATCH /api/courses/:id/.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var input service.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid course request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	partial := c.Request.Method == http.MethodPatch
	course, err := h.courseServ.UpdateCourse(c.Request.Context(), c.Param("id"), input, partial)
	if err != nil {
		h.respondCourseError(c, "update course", err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse maneja DELETE /api/courses/:id/.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseServ.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCourseError(c, "delete course", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCompleted maneja GET /api/courses/completedcourses/.
func (h *CourseHandler) ListCompleted(c *gin.Context) {
	completed, err := h.courseServ.ListCompleted(c.Request.Context())
	if err != nil {
		h.respondCourseError(c, "list completed courses", err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

// CreateCompleted maneja POST /api/courses/completedcourses/.
func (h *CourseHandler) CreateCompleted(c *gin.Context) {
	var input service.CompletedCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid completed course request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	completed, err := h.courseServ.CreateCompleted(c.Request.Context(), input)
	if err != nil {
		h.respondCourseError(c, "create completed course", err)
		return
	}
	c.JSON(http.StatusCreated, completed)
}

// GetCompleted maneja GET /api/courses/completedcourses/:id/.
func (h *CourseHandler) GetCompleted(c *gin.Context) {
	completed, err := h.courseServ.GetCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCourseError(c, "get completed course", err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

// DeleteCompleted maneja DELETE /api/courses/completedcourses/:id/.
func (h *CourseHandler) DeleteCompleted(c *gin.Context) {
	if err := h.courseServ.DeleteCompleted(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCourseError(c, "delete completed course", err)
		return
	}
	c.Status(http.StatusNoContent)
}
