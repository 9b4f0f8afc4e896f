package middleware

import (
	"docverify/internal/entity"
	jwtPkg "docverify/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
	})
}

// NewTokenMiddleware guards the admin routes. The token must carry string
// id, email and username claims.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return unauthorized(ctx)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(fields).Warn("Invalid token claims")
		return unauthorized(ctx)
	}

	id, okID := claims["id"].(string)
	email, okEmail := claims["email"].(string)
	username, okUsername := claims["username"].(string)
	if !okID || !okEmail || !okUsername {
		m.log.WithFields(fields).Warn("Token claims are missing required fields")
		return unauthorized(ctx)
	}

	ctx.Locals(jwtPkg.AdminLocalKey, entity.AdminLoginData{
		ID:       id,
		Email:    email,
		Username: username,
	})

	m.log.WithFields(fields).Debug("Authentication successful")
	return ctx.Next()
}
