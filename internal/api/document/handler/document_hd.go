package documentHandler

import (
	"errors"
	"time"

	"docverify/internal/api/document"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/handlerUtil"
	"docverify/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// extractTimeout leaves room for upload and persistence around the OCR call.
const extractTimeout = 60 * time.Second

func (h *DocumentHandler) ExtractDocument(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), extractTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing extract document request")

	file, err := ctx.FormFile("document")
	if err != nil {
		return errHandler.Handle(ctx, requestID, document.ErrNoFileUploaded, ctx.Path(), "extract_document")
	}

	res, err := h.documentService.ExtractDocument(c, file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_document")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *DocumentHandler) ParseText(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing parse text request")

	var req document.ParseTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	fields := h.documentService.ParseText(c, req.Text)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, document.ParseTextResponse{
			ParsedData: fields,
			FieldCount: fields.Len(),
		})
	}
}

func (h *DocumentHandler) GetDocumentByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("document ID is required"), ctx.Path())
	}

	doc, err := h.documentService.GetDocumentByID(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_document")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, toDocumentResponse(doc))
	}
}

func (h *DocumentHandler) ListDocuments(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list documents request")

	var query document.ListDocumentsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	query.Normalize()

	docs, total, err := h.documentService.ListDocuments(c, query.Page, query.Limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_documents")
	}

	res := document.DocumentListResponse{
		Documents:  make([]document.DocumentResponse, 0, len(docs)),
		Pagination: document.NewPagination(query.Page, query.Limit, total),
	}
	for _, doc := range docs {
		item := toDocumentResponse(doc)
		item.RawText = ""
		res.Documents = append(res.Documents, item)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *DocumentHandler) DeleteDocument(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("document ID is required"), ctx.Path())
	}

	if err := h.documentService.DeleteDocument(c, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_document")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Document deleted successfully",
		})
	}
}

func toDocumentResponse(doc entity.Document) document.DocumentResponse {
	return document.DocumentResponse{
		ID:                  doc.ID,
		OriginalFilename:    doc.OriginalFilename,
		FileURL:             doc.FileURL,
		Filesize:            doc.Filesize,
		Mimetype:            doc.Mimetype,
		RawText:             doc.RawText,
		ExtractedData:       doc.ExtractedData,
		OCRConfidence:       doc.OCRConfidence,
		OCREngine:           doc.OCREngine,
		VerificationResults: doc.VerificationResults,
		Status:              string(doc.Status),
		ProcessingTimeMs:    doc.ProcessingTimeMs,
		CreatedAt:           doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           doc.UpdatedAt.Format(time.RFC3339),
	}
}
