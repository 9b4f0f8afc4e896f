package verificationService

import (
	"fmt"
	"strings"
	"time"

	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// exportRegistration appends the registration to the configured sheet. The
// registration is already committed, so failures are only logged.
func (s *verificationService) exportRegistration(ctx context.Context, reg entity.Registration, doc entity.Document) {
	if s.sheets == nil {
		return
	}

	c, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	if err := s.sheets.AppendRow(c, registrationRow(reg, doc)); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":      contextPkg.GetRequestID(ctx),
			"registration_id": reg.ID,
			"error":           err.Error(),
		}).Warn("Failed to export registration to Google Sheets")
	}
}

// RegistrationNumber is the human facing reference: REG- plus the last eight
// characters of the id, upper cased.
func RegistrationNumber(id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "REG-" + strings.ToUpper(id)
}

func registrationRow(reg entity.Registration, doc entity.Document) []interface{} {
	submitted := reg.SubmittedData

	return []interface{}{
		reg.ID,
		RegistrationNumber(reg.ID),
		reg.CreatedAt.UTC().Format(time.RFC3339),
		reg.Name,
		submitted.Value(nlp.FieldAge),
		submitted.Value(nlp.FieldGender),
		submitted.Value(nlp.FieldDateOfBirth),
		reg.Email,
		reg.Phone,
		submitted.Value(nlp.FieldEmergencyContact),
		joinAddress(submitted),
		submitted.Value(nlp.FieldOccupation),
		submitted.Value(nlp.FieldNationality),
		string(reg.VerificationStatus),
		fmt.Sprintf("%.2f", doc.OCRConfidence),
		reg.Summary.MatchedFields,
		reg.Summary.TotalFields,
		reg.Summary.AverageConfidence,
		doc.ID,
		reg.ProcessingTimeMs,
		reg.IPAddress,
	}
}

func joinAddress(m *nlp.FieldMap) string {
	parts := make([]string, 0, 5)
	for _, f := range []nlp.Field{
		nlp.FieldAddressLine1, nlp.FieldAddressLine2, nlp.FieldCity, nlp.FieldState, nlp.FieldPinCode,
	} {
		if v := strings.TrimSpace(m.Value(f)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
