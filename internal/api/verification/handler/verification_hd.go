package verificationHandler

import (
	"errors"
	"time"

	"docverify/internal/api/verification"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/handlerUtil"
	"docverify/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *VerificationHandler) Register(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing registration request")

	var req verification.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.verificationService.Register(c, req, verification.ClientInfo{
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "register")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *VerificationHandler) Compare(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req verification.CompareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	report := h.verificationService.Compare(c, req.Extracted, req.Submitted)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, report)
	}
}

func (h *VerificationHandler) GetRegistrationByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("registration ID is required"), ctx.Path())
	}

	reg, err := h.verificationService.GetRegistrationByID(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_registration")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, toRegistrationResponse(reg))
	}
}

func (h *VerificationHandler) ListRegistrations(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var query verification.ListRegistrationsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	query.Normalize()

	regs, total, err := h.verificationService.ListRegistrations(c, query.Page, query.Limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_registrations")
	}

	res := verification.RegistrationListResponse{
		Registrations: make([]verification.RegistrationResponse, 0, len(regs)),
		Pagination:    verification.NewPagination(query.Page, query.Limit, total),
	}
	for _, reg := range regs {
		res.Registrations = append(res.Registrations, toRegistrationResponse(reg))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *VerificationHandler) SearchRegistrations(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing registration search request")

	var query verification.SearchQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	results, err := h.verificationService.SearchRegistrations(c, query.Query, query.Field)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "search_registrations")
	}

	res := verification.SearchResponse{
		Query:   query.Query,
		Field:   query.Field,
		Results: make([]verification.SearchHit, 0, len(results)),
		Count:   len(results),
	}
	for _, r := range results {
		res.Results = append(res.Results, verification.SearchHit{
			RegistrationResponse: toRegistrationResponse(r.Registration),
			Score:                r.Score,
		})
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func toRegistrationResponse(reg entity.Registration) verification.RegistrationResponse {
	return verification.RegistrationResponse{
		ID:                  reg.ID,
		DocumentID:          reg.DocumentID,
		Name:                reg.Name,
		Email:               reg.Email,
		Phone:               reg.Phone,
		SubmittedData:       reg.SubmittedData,
		VerificationResults: reg.VerificationResults,
		Summary:             reg.Summary,
		VerificationStatus:  string(reg.VerificationStatus),
		ProcessingTimeMs:    reg.ProcessingTimeMs,
		CreatedAt:           reg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           reg.UpdatedAt.Format(time.RFC3339),
	}
}
