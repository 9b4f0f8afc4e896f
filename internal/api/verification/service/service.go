package verificationService

import (
	"time"

	"docverify/internal/api/verification"
	verificationRepository "docverify/internal/api/verification/repository"
	"docverify/internal/entity"
	"docverify/pkg/google"
	"docverify/pkg/nlp"
	"docverify/pkg/utils"
	"docverify/pkg/verifier"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IVerificationService interface {
	Register(ctx context.Context, req verification.RegisterRequest, client verification.ClientInfo) (verification.RegisterResponse, error)
	Compare(ctx context.Context, extracted, submitted *nlp.FieldMap) verifier.Report
	GetRegistrationByID(ctx context.Context, id string) (entity.Registration, error)
	ListRegistrations(ctx context.Context, page, limit int) ([]entity.Registration, int, error)
	SearchRegistrations(ctx context.Context, query, field string) ([]verification.SearchResult, error)
}

const (
	// searchLimit caps the rows pulled for ranking.
	searchLimit = 50

	exportTimeout = 10 * time.Second
)

type verificationService struct {
	log                    *logrus.Logger
	verificationRepository verificationRepository.Repository
	verifier               *verifier.Verifier
	utils                  utils.IUtils
	sheets                 google.ItfSheets
	now                    func() time.Time
}

func NewVerificationService(
	log *logrus.Logger,
	vr verificationRepository.Repository,
	v *verifier.Verifier,
	utils utils.IUtils,
	sheets google.ItfSheets,
) IVerificationService {
	return &verificationService{
		log:                    log,
		verificationRepository: vr,
		verifier:               v,
		utils:                  utils,
		sheets:                 sheets,
		now:                    time.Now,
	}
}
