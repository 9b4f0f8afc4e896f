package admin

import "docverify/pkg/response"

var (
	ErrInvalidCredentials = response.NewError(401, "invalid username or password")
	ErrAdminNotConfigured = response.NewError(503, "admin access is not configured")
)
