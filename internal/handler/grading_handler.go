package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadmate/acadmate-api/internal/service"
	"github.com/acadmate/acadmate-api/internal/utils"
)

// GradingHandler triggers auto-grading runs and exposes stored grades.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided course-scoped router group.
// Both endpoints are restricted to the course teacher; the run trigger
// additionally carries a rate limiter since a run fans out into LLM calls.
func (h *GradingHandler) Register(router fiber.Router, teacherOnly, runLimiter fiber.Handler) {
	router.Post("/:assignNo/grade", teacherOnly, runLimiter, h.run)
	router.Get("/:assignNo/grades/:studentEmail", teacherOnly, h.studentGrade)
}

func (h *GradingHandler) run(c *fiber.Ctx) error {
	courseID, err := courseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	assignNo, err := parseAssignNoParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.RunForAssignment(c.Context(), currentUserEmail(c), courseID, assignNo)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "auto-grading completed", stats)
}

func (h *GradingHandler) studentGrade(c *fiber.Ctx) error {
	courseID, err := courseIDParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	assignNo, err := parseAssignNoParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentEmail := c.Params("studentEmail")
	if studentEmail == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "missing student email")
	}

	grade, err := h.service.StudentGrade(c.Context(), currentUserEmail(c), courseID, assignNo, studentEmail)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrNotCourseTeacher):
		return utils.SendError(c, fiber.StatusForbidden, "not the course teacher")
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
