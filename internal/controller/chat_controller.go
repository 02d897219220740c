package controller

import (
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/pkg/serverutils"
	"ai-qa-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetLatestSession(ctx *fiber.Ctx) error
}

type chatController struct {
	askService     service.IAskService
	sessionService service.ISessionService
}

func NewChatController(askService service.IAskService, sessionService service.ISessionService) IChatController {
	return &chatController{
		askService:     askService,
		sessionService: sessionService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask", c.Ask)
	r.Get("/session", c.GetSession)

	h := r.Group("/api/chat/v1")
	h.Post("ask", c.Ask)
	h.Get("session/:userId/latest", c.GetLatestSession)
	h.Get("session/:userId/:sessionId", c.GetSessionByPath)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.askService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

// GetSession reads the identifiers from the query string. When sessionId is
// omitted the user's most recent live session is returned.
func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	userId := ctx.Query("userId")
	sessionId := ctx.Query("sessionId")

	if sessionId == "" {
		if userId == "" {
			return serverutils.ValidateRequest(dto.GetSessionRequest{})
		}
		res, err := c.sessionService.GetLatest(ctx.Context(), userId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success show latest session", res))
	}

	return c.showSession(ctx, dto.GetSessionRequest{UserId: userId, SessionId: sessionId})
}

func (c *chatController) GetSessionByPath(ctx *fiber.Ctx) error {
	return c.showSession(ctx, dto.GetSessionRequest{
		UserId:    ctx.Params("userId"),
		SessionId: ctx.Params("sessionId"),
	})
}

func (c *chatController) showSession(ctx *fiber.Ctx, req dto.GetSessionRequest) error {
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Get(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) GetLatestSession(ctx *fiber.Ctx) error {
	res, err := c.sessionService.GetLatest(ctx.Context(), ctx.Params("userId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show latest session", res))
}
