package server

import (
	"murmur/internal/engine"
	"murmur/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ConfigRequest carries a partial community configuration update.
type ConfigRequest struct {
	SubmissionChannel *string   `json:"submission_channel"`
	AuditChannel      *string   `json:"audit_channel"`
	AdminRoles        *[]string `json:"admin_roles"`
	QuorumThreshold   *int      `json:"quorum_threshold"`
	CooldownSeconds   *int      `json:"cooldown_seconds"`
}

// GetConfig returns the community configuration to a moderator.
func (s *Server) GetConfig(c *fiber.Ctx) error {
	cfg, err := s.engine.GetConfig(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

// UpdateConfig applies a configuration patch. The first caller to configure a
// community becomes its owner.
func (s *Server) UpdateConfig(c *fiber.Ctx) error {
	req := new(ConfigRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cfg, err := s.engine.UpdateConfig(c.UserContext(), c.Params("cid"), middleware.Handle(c), middleware.Roles(c),
		engine.ConfigPatch{
			SubmissionChannel: req.SubmissionChannel,
			AuditChannel:      req.AuditChannel,
			AdminRoles:        req.AdminRoles,
			QuorumThreshold:   req.QuorumThreshold,
			CooldownSeconds:   req.CooldownSeconds,
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}
