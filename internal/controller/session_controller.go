package controller

import (
	"food-consult-bot/internal/dto"
	"food-consult-bot/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type SessionStats interface {
	Count() int
	Capacity() int
}

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessions SessionStats
}

func NewSessionController(sessions SessionStats) ISessionController {
	return &sessionController{sessions: sessions}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/session/v1/stats", c.Stats)
}

func (c *sessionController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "ok", Sessions: c.sessions.Count()})
}

func (c *sessionController) Stats(ctx *fiber.Ctx) error {
	res := dto.SessionStatsResponse{
		Active:   c.sessions.Count(),
		Capacity: c.sessions.Capacity(),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session stats", res))
}
