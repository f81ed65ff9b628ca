package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"murmur/internal/engine"
	"murmur/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitRequest is the body for creating a submission.
type SubmitRequest struct {
	Body          string  `json:"body"`
	AttachmentURL *string `json:"attachment_url"`
	ReplyTo       *uint   `json:"reply_to"`
}

// Submit creates an anonymized submission in the community.
func (s *Server) Submit(c *fiber.Ctx) error {
	req := new(SubmitRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Submission body is required",
		})
	}

	if req.AttachmentURL != nil && !isImageURL(*req.AttachmentURL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attachment given! It can only be an image.",
		})
	}

	sub, err := s.engine.Submit(c.UserContext(), engine.SubmitRequest{
		CommunityID:   c.Params("cid"),
		AuthorHandle:  middleware.Handle(c),
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
		ReplyTo:       req.ReplyTo,
	}, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// RetractOwn deletes the caller's own recent submission. Without an id in the
// path the latest qualifying submission is retracted.
func (s *Server) RetractOwn(c *fiber.Ctx) error {
	var submissionID *uint
	if raw := c.Params("sid"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid submission id",
			})
		}
		v := uint(id)
		submissionID = &v
	}

	sub, err := s.engine.RetractOwn(c.UserContext(), c.Params("cid"), middleware.Handle(c), submissionID, time.Now())
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No submission of yours from the last 5 minutes was found",
			})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"retracted": sub.ID,
		"notice":    "This submission has been deleted by the author.",
	})
}

// Vote records a negative signal against a submission and retracts it when
// the community quorum is exceeded.
func (s *Server) Vote(c *fiber.Ctx) error {
	sid, err := strconv.ParseUint(c.Params("sid"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission id",
		})
	}

	res, err := s.engine.HandleVote(c.UserContext(), c.Params("cid"), uint(sid), middleware.Handle(c))
	if err != nil {
		return respondError(c, err)
	}

	// the audit token is delivered to the community's audit channel, never to
	// the voter
	if res.AuditToken != "" {
		middleware.Logger.Info("retraction audit token issued",
			"community", c.Params("cid"),
			"submission", sid,
			"token", res.AuditToken,
		)
		res.AuditToken = ""
	}

	return c.JSON(res)
}
