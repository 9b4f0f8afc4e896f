package documentService

import (
	"docverify/internal/api/document"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"
	"docverify/pkg/ocr"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var (
	scanNameFields    = []nlp.Field{nlp.FieldName, nlp.FieldFirstName}
	scanContactFields = []nlp.Field{nlp.FieldDateOfBirth, nlp.FieldPhone, nlp.FieldEmail}
)

// ScanFrame recognizes a single camera frame without storing it.
func (s *documentService) ScanFrame(ctx context.Context, frame []byte) (document.ScanResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	mimeType, err := s.utils.ValidateFrame(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Debug("Rejected scan frame")
		return document.ScanResponse{}, uploadError(err)
	}

	result, err := s.recognize(ctx, ocr.Input{Data: frame, MimeType: mimeType, Filename: "frame"})
	if err != nil {
		return document.ScanResponse{}, err
	}

	fields := s.extractor.Extract(result.Text)
	missing := missingIdentityFields(fields)

	return document.ScanResponse{
		ExtractedText: result.Text,
		ParsedData:    fields,
		Confidence:    result.Confidence,
		Engine:        result.Engine,
		FieldCount:    fields.Len(),
		Ready:         hasAny(fields, scanNameFields) && hasAny(fields, scanContactFields),
		Missing:       missing,
	}, nil
}

func missingIdentityFields(fields *nlp.FieldMap) []string {
	missing := []string{}
	if !hasAny(fields, scanNameFields) {
		missing = append(missing, string(nlp.FieldName))
	}
	for _, f := range scanContactFields {
		if !fields.Has(f) {
			missing = append(missing, string(f))
		}
	}
	return missing
}

func hasAny(fields *nlp.FieldMap, want []nlp.Field) bool {
	for _, f := range want {
		if fields.Has(f) {
			return true
		}
	}
	return false
}
