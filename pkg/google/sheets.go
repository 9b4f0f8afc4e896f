package google

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrNotConfigured = errors.New("google sheets is not configured")

const (
	headerRange = "Sheet1!A1:Z1"
	appendRange = "Sheet1!A:Z"
)

// RegistrationHeaders is the first row of the export sheet. Rows passed to
// AppendRow follow the same column order.
var RegistrationHeaders = []interface{}{
	"Registration ID",
	"Registration Number",
	"Timestamp",
	"Name",
	"Age",
	"Gender",
	"Date of Birth",
	"Email",
	"Phone",
	"Emergency Contact",
	"Address",
	"Occupation",
	"Nationality",
	"Verification Status",
	"OCR Confidence",
	"Matched Fields",
	"Total Fields",
	"Average Confidence",
	"Document ID",
	"Processing Time (ms)",
	"IP Address",
}

type ItfSheets interface {
	EnsureHeaders(ctx context.Context) error
	AppendRow(ctx context.Context, row []interface{}) error
}

type sheetsExporter struct {
	service       *sheets.Service
	spreadsheetID string
}

// New authenticates as a service account from GOOGLE_SHEET_ID,
// GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY. It returns ErrNotConfigured
// when any of them is unset.
func New(ctx context.Context) (ItfSheets, error) {
	spreadsheetID := os.Getenv("GOOGLE_SHEET_ID")
	email := os.Getenv("GOOGLE_CLIENT_EMAIL")
	privateKey := os.Getenv("GOOGLE_PRIVATE_KEY")
	if spreadsheetID == "" || email == "" || privateKey == "" {
		return nil, ErrNotConfigured
	}

	cfg := &jwt.Config{
		Email: email,
		// keys pasted into .env files carry literal \n sequences
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	return NewWithOptions(ctx, spreadsheetID, option.WithHTTPClient(cfg.Client(ctx)))
}

func NewWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (ItfSheets, error) {
	if spreadsheetID == "" {
		return nil, ErrNotConfigured
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &sheetsExporter{service: service, spreadsheetID: spreadsheetID}, nil
}

// EnsureHeaders writes RegistrationHeaders to the first row when it is empty.
func (s *sheetsExporter) EnsureHeaders(ctx context.Context) error {
	existing, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet headers: %w", err)
	}
	if len(existing.Values) > 0 && len(existing.Values[0]) > 0 {
		return nil
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, "Sheet1!A1", &sheets.ValueRange{
		Values: [][]interface{}{RegistrationHeaders},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet headers: %w", err)
	}

	return nil
}

func (s *sheetsExporter) AppendRow(ctx context.Context, row []interface{}) error {
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, appendRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}

	return nil
}
