package documentHandler

import (
	documentService "docverify/internal/api/document/service"
	"docverify/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DocumentHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	documentService documentService.IDocumentService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ds documentService.IDocumentService,
) *DocumentHandler {
	return &DocumentHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		documentService: ds,
	}
}

func (h *DocumentHandler) Start(srv fiber.Router) {
	documents := srv.Group("/documents")

	documents.Use("/scan", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	documents.Get("/scan", websocket.New(h.handleScanWebSocket))

	documents.Post("/extract", h.ExtractDocument)
	documents.Post("/parse", h.ParseText)
	documents.Get("/:id", h.GetDocumentByID)

	// Admin only
	documents.Get("", h.middleware.NewTokenMiddleware, h.ListDocuments)
	documents.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteDocument)
}
