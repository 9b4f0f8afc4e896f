package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	loggingMiddleware   fiber.Handler
	log                 *logrus.Logger
}

// RateLimit is the per client IP budget of the /api/v1 group.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

func DefaultRateLimit() RateLimit {
	return RateLimit{PerSecond: 50, Burst: 100}
}

func New(logger *logrus.Logger) Middleware {
	return NewWithRateLimit(logger, DefaultRateLimit())
}

func NewWithRateLimit(logger *logrus.Logger, limit RateLimit) Middleware {
	return &middleware{
		rateLimitter:        newRateLimiter(rate.Limit(limit.PerSecond), limit.Burst),
		requestIDMiddleware: NewRequestIDMiddleware(),
		loggingMiddleware:   LoggerConfig(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return m.loggingMiddleware
}
