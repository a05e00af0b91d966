package controller

import (
	"food-consult-bot/internal/dto"
	"food-consult-bot/internal/entity"
	"food-consult-bot/internal/pkg/serverutils"
	"food-consult-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMasterController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Genres(ctx *fiber.Ctx) error
	Styles(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
}

type masterController struct {
	service service.IMasterService
}

func NewMasterController(service service.IMasterService) IMasterController {
	return &masterController{service: service}
}

func (c *masterController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/master/v1")
	h.Get("/genres", c.Genres)
	h.Get("/styles", c.Styles)
	h.Post("/reload", admin, c.Reload)
}

func toMasterResponses(entries []entity.MasterEntry) []dto.MasterEntryResponse {
	res := make([]dto.MasterEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, dto.MasterEntryResponse{Code: e.Code, Name: e.Name})
	}
	return res
}

func (c *masterController) Genres(ctx *fiber.Ctx) error {
	if err := c.service.EnsureLoaded(ctx.UserContext()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get genres", toMasterResponses(c.service.Genres())))
}

func (c *masterController) Styles(ctx *fiber.Ctx) error {
	if err := c.service.EnsureLoaded(ctx.UserContext()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get styles", toMasterResponses(c.service.Styles())))
}

func (c *masterController) Reload(ctx *fiber.Ctx) error {
	if err := c.service.Reload(ctx.UserContext()); err != nil {
		return err
	}

	res := dto.ReloadMasterResponse{
		Genres: len(c.service.Genres()),
		Styles: len(c.service.Styles()),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reload master maps", res))
}
