package handler_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/acadmate/acadmate-api/internal/auth"
	"github.com/acadmate/acadmate-api/internal/config"
	"github.com/acadmate/acadmate-api/internal/handler"
	"github.com/acadmate/acadmate-api/internal/router"
	"github.com/acadmate/acadmate-api/internal/service"
)

func setupAuthApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.New(io.Discard)
	store := auth.NewRedisCodeStore(client, time.Minute, logger)
	validate := validator.New(validator.WithRequiredStructEnabled())
	authService := service.NewAuthService(store, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test"}, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(authService, logger),
	})

	return app, server
}

func postAuth(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestVerificationCodeFlow(t *testing.T) {
	app, server := setupAuthApp(t)

	status := postAuth(t, app, "/api/v1/auth/send-code", `{"email":"alice@qq.com"}`)
	require.Equal(t, fiber.StatusOK, status)

	code, err := server.Get("acadmate:verification:alice@qq.com")
	require.NoError(t, err)

	status = postAuth(t, app, "/api/v1/auth/verify-code", `{"email":"alice@qq.com","code":"`+code+`"}`)
	require.Equal(t, fiber.StatusOK, status)

	// The code is consumed on first use.
	status = postAuth(t, app, "/api/v1/auth/verify-code", `{"email":"alice@qq.com","code":"`+code+`"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestVerificationCodeRejectsBadInput(t *testing.T) {
	app, _ := setupAuthApp(t)

	require.Equal(t, fiber.StatusBadRequest,
		postAuth(t, app, "/api/v1/auth/send-code", `{"email":"not-an-email"}`))
	require.Equal(t, fiber.StatusBadRequest,
		postAuth(t, app, "/api/v1/auth/verify-code", `{"email":"alice@qq.com","code":"999999"}`))
}

func TestSendCodeIsRateLimited(t *testing.T) {
	app, _ := setupAuthApp(t)

	for i := 0; i < 5; i++ {
		require.Equal(t, fiber.StatusOK,
			postAuth(t, app, "/api/v1/auth/send-code", `{"email":"alice@qq.com"}`))
	}

	require.Equal(t, fiber.StatusTooManyRequests,
		postAuth(t, app, "/api/v1/auth/send-code", `{"email":"alice@qq.com"}`))
}
