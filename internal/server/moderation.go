package server

import (
	"strconv"
	"time"

	"murmur/internal/engine"
	"murmur/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// MuteRequest references a live submission whose author should be muted.
type MuteRequest struct {
	SubmissionID uint `json:"submission_id"`
	Severity     int  `json:"severity"`
}

// Mute deletes the referenced submission and restricts its author.
func (s *Server) Mute(c *fiber.Ctx) error {
	req := new(MuteRequest)
	if err := c.BodyParser(req); err != nil || req.SubmissionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := s.engine.Mute(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c),
		req.SubmissionID, req.Severity, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// MuteTokenRequest identifies an author via a retraction audit token.
type MuteTokenRequest struct {
	Token    string `json:"token"`
	Severity int    `json:"severity"`
}

// MuteByToken restricts the author behind an audit token, covering
// submissions already deleted by vote.
func (s *Server) MuteByToken(c *fiber.Ctx) error {
	req := new(MuteTokenRequest)
	if err := c.BodyParser(req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := s.engine.MuteByToken(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c),
		req.Token, req.Severity, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// UnmuteRequest identifies the member to unmute, either directly by pseudonym
// or by real identity handle.
type UnmuteRequest struct {
	Pseudonym string `json:"pseudonym"`
	Handle    string `json:"handle"`
}

// Unmute lifts an active restriction.
func (s *Server) Unmute(c *fiber.Ctx) error {
	req := new(UnmuteRequest)
	if err := c.BodyParser(req); err != nil || (req.Pseudonym == "" && req.Handle == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pseudonym := req.Pseudonym
	if pseudonym == "" {
		pseudonym = engine.Anonymize(req.Handle)
	}

	err := s.engine.Unmute(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c), pseudonym)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User has been unmuted",
	})
}

// RemoveSubmission deletes a submission by moderator action without recording
// a violation.
func (s *Server) RemoveSubmission(c *fiber.Ctx) error {
	sid, err := strconv.ParseUint(c.Params("sid"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission id",
		})
	}

	if err := s.engine.Remove(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c), uint(sid)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"notice": "This submission has been deleted by a moderator.",
	})
}
