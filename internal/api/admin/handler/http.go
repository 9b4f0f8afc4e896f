package adminHandler

import (
	adminService "docverify/internal/api/admin/service"
	"docverify/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	adminService adminService.IAdminService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as adminService.IAdminService,
) *AdminHandler {
	return &AdminHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		adminService: as,
	}
}

func (h *AdminHandler) Start(srv fiber.Router) {
	admins := srv.Group("/admin")

	admins.Post("/login", h.Login)
	admins.Get("/me", h.middleware.NewTokenMiddleware, h.Profile)
}
