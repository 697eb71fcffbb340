package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadmate/acadmate-api/internal/auth"
	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/service"
	"github.com/acadmate/acadmate-api/internal/utils"
)

// AuthHandler manages the verification-code endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router, sendLimiter fiber.Handler) {
	router.Post("/send-code", sendLimiter, h.sendCode)
	router.Post("/verify-code", h.verifyCode)
}

func (h *AuthHandler) sendCode(c *fiber.Ctx) error {
	var payload dto.SendCodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SendCode(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification code sent", nil)
}

func (h *AuthHandler) verifyCode(c *fiber.Ctx) error {
	var payload dto.VerifyCodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.VerifyCode(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification code accepted", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, auth.ErrCodeMismatch):
		return utils.SendError(c, fiber.StatusBadRequest, "verification code mismatch or expired")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
