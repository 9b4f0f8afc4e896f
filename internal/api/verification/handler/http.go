package verificationHandler

import (
	verificationService "docverify/internal/api/verification/service"
	"docverify/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type VerificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	verificationService verificationService.IVerificationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	vs verificationService.IVerificationService,
) *VerificationHandler {
	return &VerificationHandler{
		log:                 log,
		validator:           validate,
		middleware:          middleware,
		verificationService: vs,
	}
}

func (h *VerificationHandler) Start(srv fiber.Router) {
	verification := srv.Group("/verification")

	verification.Post("/register", h.Register)
	verification.Post("/compare", h.Compare)

	// Admin only, responses carry personal data
	verification.Get("/registrations", h.middleware.NewTokenMiddleware, h.ListRegistrations)
	verification.Get("/registrations/:id", h.middleware.NewTokenMiddleware, h.GetRegistrationByID)
	verification.Get("/search", h.middleware.NewTokenMiddleware, h.SearchRegistrations)
}
