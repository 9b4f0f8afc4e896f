package documentService

import (
	"mime/multipart"
	"time"

	"docverify/internal/api/document"
	documentRepository "docverify/internal/api/document/repository"
	"docverify/internal/entity"
	"docverify/pkg/nlp"
	"docverify/pkg/ocr"
	"docverify/pkg/s3"
	"docverify/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDocumentService interface {
	ExtractDocument(ctx context.Context, file *multipart.FileHeader) (document.ExtractResponse, error)
	ScanFrame(ctx context.Context, frame []byte) (document.ScanResponse, error)
	ParseText(ctx context.Context, text string) *nlp.FieldMap
	GetDocumentByID(ctx context.Context, id string) (entity.Document, error)
	ListDocuments(ctx context.Context, page, limit int) ([]entity.Document, int, error)
	DeleteDocument(ctx context.Context, id string) error
}

type Config struct {
	OCRTimeout time.Duration
	// images narrower than MinImageWidth are upscaled before recognition
	MinImageWidth int
	MaxImageWidth int
}

func DefaultConfig() Config {
	return Config{
		OCRTimeout:    30 * time.Second,
		MinImageWidth: 1000,
		MaxImageWidth: 3000,
	}
}

type documentService struct {
	log                *logrus.Logger
	documentRepository documentRepository.Repository
	s3                 s3.ItfS3
	engine             ocr.Engine
	extractor          *nlp.FieldExtractor
	utils              utils.IUtils
	cfg                Config
	now                func() time.Time
}

func NewDocumentService(
	log *logrus.Logger,
	dr documentRepository.Repository,
	s3 s3.ItfS3,
	engine ocr.Engine,
	extractor *nlp.FieldExtractor,
	utils utils.IUtils,
	cfg Config,
) IDocumentService {
	return &documentService{
		log:                log,
		documentRepository: dr,
		s3:                 s3,
		engine:             engine,
		extractor:          extractor,
		utils:              utils,
		cfg:                cfg,
		now:                time.Now,
	}
}
