package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseAssignNoParam(c *fiber.Ctx) (int, error) {
	value := c.Params("assignNo")
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, errors.New("invalid assignment number")
	}
	return parsed, nil
}

func courseIDParam(c *fiber.Ctx) (string, error) {
	courseID := strings.TrimSpace(c.Params("courseId"))
	if courseID == "" {
		return "", errors.New("missing course id")
	}
	return courseID, nil
}

// currentUserEmail reads the email claim placed in the request context by the
// JWT middleware.
func currentUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}
