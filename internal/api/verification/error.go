package verification

import "docverify/pkg/response"

var (
	ErrRegistrationNotFound   = response.NewError(404, "registration not found")
	ErrDocumentNotFound       = response.NewError(404, "document not found")
	ErrDocumentNotProcessed   = response.NewError(422, "document has no extracted data to verify against")
	ErrEmailAlreadyRegistered = response.NewError(409, "email already registered")
	ErrInvalidSearchField     = response.NewError(400, "search field must be one of name, email or phone")
	ErrCreateRegistration     = response.NewError(500, "failed to save registration")
)
