package controller

import (
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/pkg/serverutils"
	"en-garde-armory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Insights(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.IShowcaseService
}

func NewCatalogController(service service.IShowcaseService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/equipment")
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/insights", c.Insights)
}

func (c *catalogController) List(ctx *fiber.Ctx) error {
	res := c.service.ListEquipment(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get all equipment", res))
}

func (c *catalogController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetEquipment(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get equipment", res))
}

func (c *catalogController) Insights(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", service.DefaultHistoryLimit)
	if limit < 1 || limit > service.MaxHistoryLimit {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 50")
	}

	outcome := entity.InsightOutcome(ctx.Query("outcome"))
	if outcome != "" && !entity.ValidInsightOutcomes[outcome] {
		return fiber.NewError(fiber.StatusBadRequest, "outcome must be one of success, empty, failed")
	}

	res, err := c.service.InsightHistory(ctx.UserContext(), service.HistoryQuery{
		EquipmentID: ctx.Params("id"),
		Outcome:     outcome,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get insight history", res))
}
