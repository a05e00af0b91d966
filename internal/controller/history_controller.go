package controller

import (
	"food-consult-bot/internal/dto"
	"food-consult-bot/internal/pkg/serverutils"
	"food-consult-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router, admin fiber.Handler)
	Top(ctx *fiber.Ctx) error
}

type historyController struct {
	history service.IHistoryService
	master  service.IMasterService
}

func NewHistoryController(history service.IHistoryService, master service.IMasterService) IHistoryController {
	return &historyController{
		history: history,
		master:  master,
	}
}

// History is per user, so it sits behind the admin token.
func (c *historyController) RegisterRoutes(r fiber.Router, admin fiber.Handler) {
	h := r.Group("/history/v1", admin)
	h.Get("/:userId", c.Top)
}

func (c *historyController) Top(ctx *fiber.Ctx) error {
	req := dto.GetHistoryRequest{UserId: ctx.Params("userId")}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ranked, err := c.history.Top(ctx.UserContext(), req.UserId)
	if err != nil {
		return err
	}

	res := make([]dto.RankedFoodResponse, 0, len(ranked))
	for _, r := range ranked {
		res = append(res, dto.RankedFoodResponse{
			Rank:      r.Rank,
			Food:      r.Food,
			Genre:     r.GenreCode,
			GenreName: c.master.GenreName(r.GenreCode),
			Style:     r.StyleCode,
			StyleName: c.master.StyleName(r.StyleCode),
			Count:     r.Count,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history ranking", res))
}
