// handlers/submission.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"crucible-api/services"
)

type SubmissionHandler struct {
	Submissions *services.SubmissionService
	Rewards     *services.RewardService
}

func SetupSubmissionRoutes(api, admin fiber.Router, submissions *services.SubmissionService, rewards *services.RewardService) {
	h := &SubmissionHandler{Submissions: submissions, Rewards: rewards}

	// 🔓 Public
	api.Post("/submit", h.Submit)
	api.Get("/submissions/:id", h.GetSubmission)
	api.Get("/gallery", h.Gallery)
	api.Get("/gallery/:id", h.GalleryPiece)
	api.Get("/stats", h.Stats)

	// 🔐 Admin key required
	admin.Get("/pending", h.ListPending)
	admin.Post("/approve/:id", h.Approve)
	admin.Post("/reject/:id", h.Reject)
	admin.Get("/artists/rewards", h.EligibleArtists)
}

func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	sub, err := h.Submissions.Submit(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Submission received! Pending approval.",
		"submission_id": sub.ID,
		"status":        sub.Status,
	})
}

func (h *SubmissionHandler) GetSubmission(c *fiber.Ctx) error {
	sub, err := h.Submissions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "submission": sub})
}

func (h *SubmissionHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.Submissions.ListPending(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"count":       len(pending),
		"submissions": pending,
	})
}

func (h *SubmissionHandler) Approve(c *fiber.Ctx) error {
	sub, err := h.Submissions.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Submission approved and added to gallery!",
		"submission": sub,
	})
}

func (h *SubmissionHandler) Reject(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := parseOptionalBody(c, &body); err != nil {
		return invalidBody(c)
	}
	sub, err := h.Submissions.Reject(c.UserContext(), c.Params("id"), body.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Submission rejected.",
		"submission": sub,
	})
}

func (h *SubmissionHandler) Gallery(c *fiber.Ctx) error {
	limit := services.ParseGalleryLimit(c.Query("limit"))
	pieces, err := h.Submissions.Gallery(c.UserContext(), c.Query("discipline"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(pieces),
		"gallery": pieces,
	})
}

func (h *SubmissionHandler) GalleryPiece(c *fiber.Ctx) error {
	piece, err := h.Submissions.GalleryPiece(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "piece": piece})
}

func (h *SubmissionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Submissions.Stats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *SubmissionHandler) EligibleArtists(c *fiber.Ctx) error {
	artists, err := h.Rewards.EligibleArtists(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(artists),
		"artists": artists,
	})
}
