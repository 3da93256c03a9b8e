package handlers

import (
	"github.com/gofiber/fiber/v2"

	"crucible-api/models"
	"crucible-api/services"
)

type TournamentHandler struct {
	Tournaments *services.TournamentService
}

func SetupTournamentRoutes(api, admin fiber.Router, tournaments *services.TournamentService) {
	h := &TournamentHandler{Tournaments: tournaments}

	// 🔓 Public: participants identify themselves by name + wallet
	api.Get("/tournament", h.Current)
	api.Post("/tournament/enter", h.Enter)
	api.Get("/tournament/entries", h.Entries)
	api.Post("/tournament/rate", h.Rate)
	api.Get("/tournament/results", h.Results)
	api.Get("/tournaments", h.List)

	// 🔐 Admin key required
	admin.Post("/tournament/create", h.Create)
	admin.Post("/tournament/end", h.End)
}

func (h *TournamentHandler) Current(c *fiber.Ctx) error {
	view, err := h.Tournaments.Current(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if view == nil {
		return c.JSON(fiber.Map{
			"success":    true,
			"tournament": nil,
			"message":    "No active tournament",
		})
	}
	return c.JSON(fiber.Map{"success": true, "tournament": view})
}

func (h *TournamentHandler) Enter(c *fiber.Ctx) error {
	var req services.EnterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	res, err := h.Tournaments.Enter(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Entry submitted!",
		"tournament_id": res.TournamentID,
		"entry_id":      res.EntryID,
		"entry_count":   res.EntryCount,
	})
}

func (h *TournamentHandler) Entries(c *fiber.Ctx) error {
	res, err := h.Tournaments.Entries(c.UserContext(), c.Query("tournament_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		*services.EntriesResult
	}{true, len(res.Entries), res})
}

func (h *TournamentHandler) Rate(c *fiber.Ctx) error {
	var req services.RateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	res, err := h.Tournaments.Rate(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Ratings recorded",
		"tournament_id": res.TournamentID,
		"rated_entries": res.RatedEntries,
	})
}

func (h *TournamentHandler) Results(c *fiber.Ctx) error {
	res, err := h.Tournaments.Results(c.UserContext(), c.Query("tournament_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		*models.TournamentResults
	}{true, res})
}

func (h *TournamentHandler) List(c *fiber.Ctx) error {
	list, err := h.Tournaments.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(struct {
		Success bool `json:"success"`
		*services.TournamentList
	}{true, list})
}

func (h *TournamentHandler) Create(c *fiber.Ctx) error {
	var req services.CreateTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	t, err := h.Tournaments.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Tournament created",
		"tournament": t,
	})
}

func (h *TournamentHandler) End(c *fiber.Ctx) error {
	var body struct {
		TournamentID string `json:"tournament_id"`
	}
	if err := parseOptionalBody(c, &body); err != nil {
		return invalidBody(c)
	}
	res, err := h.Tournaments.End(c.UserContext(), body.TournamentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Tournament ended",
		"tournament_id": res.TournamentID,
		"winner":        res.Winner,
		"prize":         res.Prize,
	})
}
