package adminHandler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docverify/internal/api/admin"
	adminService "docverify/internal/api/admin/service"
	"docverify/internal/middleware"
	"docverify/pkg/bcrypt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv(middleware.AccessTokenSecret, "test-secret")

	b, err := bcrypt.NewWithCost(4)
	require.NoError(t, err)
	hash, err := b.HashPassword("hunter2")
	require.NoError(t, err)

	svc := adminService.NewAdminService(logrus.New(), adminService.Credentials{
		ID: "01HADMIN", Username: "root", Email: "root@example.com", PasswordHash: hash,
	}, b, middleware.AccessTokenSecret)

	m := middleware.New(logrus.New())
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	New(logrus.New(), validator.New(), m, svc).Start(app.Group("/api/v1"))
	return app
}

func login(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLoginThenProfile(t *testing.T) {
	app := newTestApp(t)

	resp := login(t, app, `{"username":"root","password":"hunter2"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res admin.LoginResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &res))
	require.NotEmpty(t, res.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile admin.ProfileResponse
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &profile))
	assert.Equal(t, admin.ProfileResponse{ID: "01HADMIN", Username: "root", Email: "root@example.com"}, profile)
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, fiber.StatusUnauthorized, login(t, app, `{"username":"root","password":"bad"}`).StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, login(t, app, `{"username":"root"}`).StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
