// Package middleware provides authentication, logging, tracing, and rate
// limit middleware for the HTTP transport.
package middleware

import (
	"strings"

	"murmur/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired enforces authentication for protected routes. The caller is
// assumed to have been authenticated by the identity provider that minted the
// token; the claims carry a stable real identity handle ("sub") and a
// role-set snapshot ("roles"), which are stored in request locals.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	handle, ok := claims["sub"].(string)
	if !ok || handle == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token structure - missing subject",
		})
	}

	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	c.Locals("handle", handle)
	c.Locals("roles", roles)

	return c.Next()
}

// Handle returns the authenticated real identity handle from request locals.
func Handle(c *fiber.Ctx) string {
	if h, ok := c.Locals("handle").(string); ok {
		return h
	}
	return ""
}

// Roles returns the authenticated role-set snapshot from request locals.
func Roles(c *fiber.Ctx) []string {
	if r, ok := c.Locals("roles").([]string); ok {
		return r
	}
	return nil
}
