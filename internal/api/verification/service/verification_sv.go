package verificationService

import (
	"errors"
	"sort"
	"strings"

	"docverify/internal/api/document"
	"docverify/internal/api/verification"
	verificationRepository "docverify/internal/api/verification/repository"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *verificationService) Register(ctx context.Context, req verification.RegisterRequest, client verification.ClientInfo) (verification.RegisterResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := s.now()

	repo, err := s.verificationRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return verification.RegisterResponse{}, err
	}

	defer func() {
		if err != nil {
			if rollbackErr := repo.Rollback(); rollbackErr != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      rollbackErr.Error(),
				}).Error("Failed to rollback transaction")
			}
		}
	}()

	doc, err := repo.Document.GetDocumentByID(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			err = verification.ErrDocumentNotFound
		}
		return verification.RegisterResponse{}, err
	}

	if doc.Status == entity.DocumentError || doc.Status == entity.DocumentUploaded {
		err = verification.ErrDocumentNotProcessed
		return verification.RegisterResponse{}, err
	}

	submitted := req.ToFieldMap()
	report := s.verifier.VerifyDocument(doc.ExtractedData, submitted)

	status := entity.VerificationPending
	if report.Summary.OverallMatch {
		status = entity.VerificationVerified
	}

	id, err := s.utils.NewULIDFromTimestamp(start)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return verification.RegisterResponse{}, err
	}

	now := s.now()
	reg := entity.Registration{
		ID:                  id,
		DocumentID:          doc.ID,
		Name:                req.FullName(),
		Email:               strings.ToLower(strings.TrimSpace(req.ContactInfo.Email)),
		Phone:               strings.TrimSpace(req.ContactInfo.Phone),
		SubmittedData:       submitted,
		VerificationResults: report.Results,
		Summary:             report.Summary,
		VerificationStatus:  status,
		IPAddress:           client.IPAddress,
		UserAgent:           client.UserAgent,
		ProcessingTimeMs:    now.Sub(start).Milliseconds(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err = repo.Registration.CreateRegistration(ctx, reg); err != nil {
		if !errors.Is(err, verification.ErrEmailAlreadyRegistered) {
			err = verification.ErrCreateRegistration
		}
		return verification.RegisterResponse{}, err
	}

	doc.VerificationResults = report.Results
	doc.Status = entity.DocumentVerified
	if err = repo.Document.UpdateVerification(ctx, doc); err != nil {
		return verification.RegisterResponse{}, err
	}

	if err = repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return verification.RegisterResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      requestID,
		"registration_id": id,
		"document_id":     doc.ID,
		"matched":         report.Summary.MatchedFields,
		"total":           report.Summary.TotalFields,
		"status":          status,
	}).Info("Registration verified")

	s.exportRegistration(ctx, reg, doc)

	return verification.RegisterResponse{
		RegistrationID:     id,
		DocumentID:         doc.ID,
		VerificationStatus: string(status),
		Results:            report.Results,
		Summary:            report.Summary,
		ProcessingTimeMs:   reg.ProcessingTimeMs,
	}, nil
}

func (s *verificationService) Compare(ctx context.Context, extracted, submitted *nlp.FieldMap) verifier.Report {
	report := s.verifier.VerifyDocument(extracted, submitted)

	s.log.WithFields(logrus.Fields{
		"request_id":    contextPkg.GetRequestID(ctx),
		"total":         report.Summary.TotalFields,
		"matched":       report.Summary.MatchedFields,
		"overall_match": report.Summary.OverallMatch,
	}).Debug("Compared field maps")

	return report
}

func (s *verificationService) GetRegistrationByID(ctx context.Context, id string) (entity.Registration, error) {
	repo, err := s.verificationRepository.NewClient(false)
	if err != nil {
		return entity.Registration{}, err
	}

	return repo.Registration.GetRegistrationByID(ctx, id)
}

func (s *verificationService) ListRegistrations(ctx context.Context, page, limit int) ([]entity.Registration, int, error) {
	repo, err := s.verificationRepository.NewClient(false)
	if err != nil {
		return nil, 0, err
	}

	registrations, err := repo.Registration.ListRegistrations(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.Registration.CountRegistrations(ctx)
	if err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// SearchRegistrations prefilters by substring in SQL and orders the hits by
// Jaro-Winkler similarity to query, best first. Without a field every
// searchable column is tried and the best score wins.
func (s *verificationService) SearchRegistrations(ctx context.Context, query, field string) ([]verification.SearchResult, error) {
	query = strings.TrimSpace(query)

	var columns []verificationRepository.SearchColumn
	switch verificationRepository.SearchColumn(field) {
	case "":
	case verificationRepository.SearchName, verificationRepository.SearchEmail, verificationRepository.SearchPhone:
		columns = append(columns, verificationRepository.SearchColumn(field))
	default:
		return nil, verification.ErrInvalidSearchField
	}

	repo, err := s.verificationRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	registrations, err := repo.Registration.SearchRegistrations(ctx, query, searchLimit, columns...)
	if err != nil {
		return nil, err
	}

	results := make([]verification.SearchResult, 0, len(registrations))
	for _, reg := range registrations {
		results = append(results, verification.SearchResult{
			Registration: reg,
			Score:        score(reg, query, columns),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

func score(reg entity.Registration, query string, columns []verificationRepository.SearchColumn) float64 {
	if len(columns) == 0 {
		columns = []verificationRepository.SearchColumn{
			verificationRepository.SearchName,
			verificationRepository.SearchEmail,
			verificationRepository.SearchPhone,
		}
	}

	best := 0.0
	for _, col := range columns {
		var value string
		switch col {
		case verificationRepository.SearchName:
			value = reg.Name
		case verificationRepository.SearchEmail:
			value = reg.Email
		case verificationRepository.SearchPhone:
			value = reg.Phone
		}
		best = max(best, nlp.JaroWinkler(query, value))
	}

	return best
}
