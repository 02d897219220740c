package controller

import (
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/pkg/serverutils"
	"ai-qa-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/process-document", c.Process)

	h := r.Group("/api/document/v1")
	h.Post("process", c.Process)
}

// Process accepts the ingestion request and replies 202 as soon as the
// chunks are queued; indexing finishes in the background workers.
func (c *documentController) Process(ctx *fiber.Ctx) error {
	var req dto.ProcessDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Process(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for processing", res))
}
