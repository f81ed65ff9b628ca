package server

import (
	"errors"

	"murmur/internal/engine"

	"github.com/gofiber/fiber/v2"
)

// respondError maps engine failure kinds to HTTP responses. Anything
// unrecognized is treated as a storage failure and surfaced as retryable.
func respondError(c *fiber.Ctx, err error) error {
	var rateLimited *engine.RateLimitedError
	var restricted *engine.RestrictedError

	switch {
	case errors.As(err, &rateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":               "You are submitting too quickly",
			"retry_after_seconds": int(rateLimited.Remaining.Seconds()) + 1,
		})
	case errors.As(err, &restricted):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":            "You are restricted from submitting",
			"restricted_until": restricted.Until,
		})
	case errors.Is(err, engine.ErrInvalidToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or malformed token",
		})
	case errors.Is(err, engine.ErrInvalidSeverity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Severity must be 1 (minor), 2 (moderate), or 3 (severe)",
		})
	case errors.Is(err, engine.ErrInvalidConfig):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid configuration value",
		})
	case errors.Is(err, engine.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, engine.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a moderator of this community",
		})
	case errors.Is(err, engine.ErrNotConfigured):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This community has not been configured. Please contact the community admin.",
		})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Temporary failure, please try again",
		})
	}
}
