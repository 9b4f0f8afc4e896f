package verificationHandler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docverify/internal/api/verification"
	"docverify/internal/entity"
	"docverify/internal/middleware"
	jwtPkg "docverify/pkg/jwt"
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type stubService struct {
	registered  verification.RegisterRequest
	client      verification.ClientInfo
	registerErr error
	search      []verification.SearchResult
	searchArgs  [2]string
}

func (s *stubService) Register(_ context.Context, req verification.RegisterRequest, client verification.ClientInfo) (verification.RegisterResponse, error) {
	if s.registerErr != nil {
		return verification.RegisterResponse{}, s.registerErr
	}
	s.registered, s.client = req, client
	return verification.RegisterResponse{RegistrationID: "01HREG", DocumentID: req.DocumentID, VerificationStatus: "verified"}, nil
}

func (s *stubService) Compare(_ context.Context, extracted, submitted *nlp.FieldMap) verifier.Report {
	return verifier.New(verifier.DefaultConfig()).VerifyDocument(extracted, submitted)
}

func (s *stubService) GetRegistrationByID(_ context.Context, id string) (entity.Registration, error) {
	return entity.Registration{}, verification.ErrRegistrationNotFound
}

func (s *stubService) ListRegistrations(_ context.Context, page, limit int) ([]entity.Registration, int, error) {
	return nil, 0, nil
}

func (s *stubService) SearchRegistrations(_ context.Context, query, field string) ([]verification.SearchResult, error) {
	s.searchArgs = [2]string{query, field}
	return s.search, nil
}

func newTestApp(svc *stubService) *fiber.App {
	m := middleware.New(logrus.New())
	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(m.NewRequestIDMiddleware())
	New(logrus.New(), validator.New(), m, svc).Start(app.Group("/api/v1"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "verification-test")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

const registerBody = `{
	"document_id": "01HDOC",
	"personal_info": {"first_name": "Jane", "last_name": "Doe", "gender": "F"},
	"contact_info": {"phone": "9876543210", "email": "jane@example.com"},
	"address": {"city": "Springfield", "pin_code": "560001"}
}`

func TestRegisterHandler(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/verification/register", registerBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var res verification.RegisterResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &res))
	assert.Equal(t, "01HREG", res.RegistrationID)

	assert.Equal(t, "Jane Doe", svc.registered.FullName())
	assert.Equal(t, "560001", svc.registered.Address.PinCode)
	assert.Equal(t, "verification-test", svc.client.UserAgent)
}

func TestRegisterHandlerValidation(t *testing.T) {
	app := newTestApp(&stubService{})

	cases := map[string]string{
		"missing document":  `{"personal_info":{"first_name":"A","last_name":"B"},"contact_info":{"phone":"1","email":"a@b.co"}}`,
		"missing last name": `{"document_id":"x","personal_info":{"first_name":"A"},"contact_info":{"phone":"1","email":"a@b.co"}}`,
		"bad email":         `{"document_id":"x","personal_info":{"first_name":"A","last_name":"B"},"contact_info":{"phone":"1","email":"nope"}}`,
		"malformed body":    `{"document_id":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/v1/verification/register", body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	app := newTestApp(&stubService{registerErr: verification.ErrEmailAlreadyRegistered})

	resp := postJSON(t, app, "/api/v1/verification/register", registerBody)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCompareHandler(t *testing.T) {
	app := newTestApp(&stubService{})

	resp := postJSON(t, app, "/api/v1/verification/compare", `{
		"extracted": {"firstName": "Jane", "email": "jane@example.com"},
		"submitted": {"email": "jane@example.com", "firstName": "Jan"}
	}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report verifier.Report
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &report))

	require.Len(t, report.Results, 2)
	assert.Equal(t, nlp.FieldEmail, report.Results[0].Field)
	assert.Equal(t, nlp.FieldFirstName, report.Results[1].Field)
	assert.Equal(t, 2, report.Summary.TotalFields)
}

func TestCompareHandlerRejectsUnknownFields(t *testing.T) {
	app := newTestApp(&stubService{})

	resp := postJSON(t, app, "/api/v1/verification/compare", `{
		"extracted": {"favouriteColour": "blue"},
		"submitted": {"firstName": "Jane"}
	}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/verification/compare", `{"submitted": {"firstName": "Jane"}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSearchHandler(t *testing.T) {
	t.Setenv(middleware.AccessTokenSecret, "test-secret")
	svc := &stubService{search: []verification.SearchResult{
		{Registration: entity.Registration{ID: "01HREG", Name: "Jane Doe"}, Score: 0.97},
	}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/verification/search?query=jane", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id": "01HADMIN", "email": "admin@example.com", "username": "root",
	}, time.Hour, middleware.AccessTokenSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/verification/search?query=jane&field=name", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res verification.SearchResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, jsoniter.Unmarshal(body, &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Jane Doe", res.Results[0].Name)
	assert.Equal(t, 0.97, res.Results[0].Score)
	assert.Equal(t, [2]string{"jane", "name"}, svc.searchArgs)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/verification/search?query=jane&field=address", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
