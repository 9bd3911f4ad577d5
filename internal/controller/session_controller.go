package controller

import (
	"en-garde-armory-be/internal/dto"
	"en-garde-armory-be/internal/pkg/serverutils"
	"en-garde-armory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	RequestInsight(ctx *fiber.Ctx) error
	AskInsight(ctx *fiber.Ctx) error
	TogglePanel(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.IShowcaseService
	tokens  *serverutils.SessionTokens
}

func NewSessionController(service service.IShowcaseService, tokens *serverutils.SessionTokens) ISessionController {
	return &sessionController{service: service, tokens: tokens}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Post("/sessions", c.Start)

	h := r.Group("/sessions/me")
	h.Use(c.tokens.Middleware())
	h.Get("", c.Show)
	h.Delete("", c.End)
	h.Post("select", c.Select)
	h.Post("insight", c.RequestInsight)
	h.Post("ask", c.AskInsight)
	h.Post("panel/toggle", c.TogglePanel)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	view, err := c.service.StartSession(ctx.UserContext())
	if err != nil {
		return err
	}

	token, expiresAt, err := c.tokens.Issue(view.SessionId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session started", &dto.StartSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		View:      view,
	}))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetView(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get view", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	if err := c.service.EndSession(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}

func (c *sessionController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectEquipmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Select(ctx.UserContext(), serverutils.SessionID(ctx), req.EquipmentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select equipment", res))
}

func (c *sessionController) RequestInsight(ctx *fiber.Ctx) error {
	res, err := c.service.RequestInsight(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Insight requested", res))
}

func (c *sessionController) AskInsight(ctx *fiber.Ctx) error {
	var req dto.AskInsightRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AskInsight(ctx.UserContext(), serverutils.SessionID(ctx), req.Query)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Insight requested", res))
}

func (c *sessionController) TogglePanel(ctx *fiber.Ctx) error {
	res, err := c.service.TogglePanel(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle panel", res))
}
