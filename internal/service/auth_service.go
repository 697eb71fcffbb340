package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/acadmate/acadmate-api/internal/auth"
	"github.com/acadmate/acadmate-api/internal/dto"
)

// AuthService issues and checks the email verification codes the login and
// password-reset flows build on.
type AuthService interface {
	SendCode(ctx context.Context, payload dto.SendCodeRequest) error
	VerifyCode(ctx context.Context, payload dto.VerifyCodeRequest) error
}

type authService struct {
	codes     auth.CodeStore
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService builds the auth service.
func NewAuthService(codes auth.CodeStore, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		codes:     codes,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) SendCode(ctx context.Context, payload dto.SendCodeRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	email := normalizeEmail(payload.Email)
	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return err
	}

	// Mail delivery runs out of band; the issued code only reaches the
	// development log here.
	s.logger.Debug().Str("email", email).Str("code", code).Msg("verification code ready for delivery")
	return nil
}

func (s *authService) VerifyCode(ctx context.Context, payload dto.VerifyCodeRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	return s.codes.Verify(ctx, normalizeEmail(payload.Email), payload.Code)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
