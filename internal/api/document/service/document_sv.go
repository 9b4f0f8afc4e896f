package documentService

import (
	"errors"
	"mime/multipart"
	"strings"

	"docverify/internal/api/document"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"
	"docverify/pkg/ocr"
	"docverify/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *documentService) ExtractDocument(ctx context.Context, file *multipart.FileHeader) (document.ExtractResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := s.now()

	if err := s.utils.ValidateDocumentFile(file); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected uploaded document")
		return document.ExtractResponse{}, uploadError(err)
	}

	data, err := s.utils.ReadFile(file)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to read uploaded document")
		return document.ExtractResponse{}, err
	}
	mimeType := strings.ToLower(file.Header.Get("Content-Type"))

	id, err := s.utils.NewULIDFromTimestamp(start)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return document.ExtractResponse{}, err
	}

	fileURL, err := s.s3.UploadDocument(id, mimeType, data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload document to S3")
		return document.ExtractResponse{}, document.ErrFailedToUpload
	}

	repo, err := s.documentRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return document.ExtractResponse{}, err
	}

	doc := entity.Document{
		ID:               id,
		OriginalFilename: file.Filename,
		FileURL:          fileURL,
		Filesize:         file.Size,
		Mimetype:         mimeType,
		ExtractedData:    nlp.NewFieldMap(),
		Status:           entity.DocumentUploaded,
		CreatedAt:        start,
		UpdatedAt:        start,
	}

	result, err := s.recognize(ctx, ocr.Input{Data: data, MimeType: mimeType, Filename: file.Filename})
	if err != nil {
		doc.Status = entity.DocumentError
		doc.ProcessingTimeMs = s.now().Sub(start).Milliseconds()
		if cerr := repo.Document.CreateDocument(ctx, doc); cerr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      cerr.Error(),
			}).Error("Failed to record failed document")
		}
		return document.ExtractResponse{}, err
	}

	doc.RawText = result.Text
	doc.ExtractedData = s.extractor.Extract(result.Text)
	doc.OCRConfidence = result.Confidence
	doc.OCREngine = result.Engine
	doc.Status = entity.DocumentProcessed
	doc.ProcessingTimeMs = s.now().Sub(start).Milliseconds()

	if err := repo.Document.CreateDocument(ctx, doc); err != nil {
		return document.ExtractResponse{}, document.ErrCreateDocument
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"document_id": id,
		"engine":      result.Engine,
		"fields":      doc.ExtractedData.Len(),
		"confidence":  result.Confidence,
	}).Info("Document processed")

	return document.ExtractResponse{
		DocumentID:       id,
		ExtractedText:    result.Text,
		ParsedData:       doc.ExtractedData,
		Confidence:       result.Confidence,
		Engine:           result.Engine,
		ProcessingTimeMs: doc.ProcessingTimeMs,
		WordCount:        len(strings.Fields(result.Text)),
	}, nil
}

// recognize preprocesses images and runs the engine under the OCR timeout.
// Images that cannot be decoded here are sent to the engine unchanged.
func (s *documentService) recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if in.IsImage() {
		optimized, err := s.utils.OptimizeImageForOCR(in.Data, s.cfg.MinImageWidth, s.cfg.MaxImageWidth)
		if err == nil {
			in.Data, in.MimeType = optimized, "image/png"
		} else {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"mimetype":   in.MimeType,
			}).Debug("Keeping original image for OCR")
		}
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.cfg.OCRTimeout)
	defer cancel()

	result, err := s.engine.Recognize(ocrCtx, in)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"engine":     s.engine.Name(),
			"error":      err.Error(),
		}).Error("Text recognition failed")

		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ocrCtx.Err(), context.DeadlineExceeded):
			return ocr.Result{}, document.ErrOCRTimeout
		case errors.Is(err, ocr.ErrUnsupported):
			return ocr.Result{}, document.ErrInvalidFileType
		}
		return ocr.Result{}, document.ErrOCRFailed
	}

	return result, nil
}

func (s *documentService) ParseText(ctx context.Context, text string) *nlp.FieldMap {
	fields := s.extractor.Extract(text)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"fields":     fields.Len(),
	}).Debug("Parsed text")

	return fields
}

func (s *documentService) GetDocumentByID(ctx context.Context, id string) (entity.Document, error) {
	repo, err := s.documentRepository.NewClient(false)
	if err != nil {
		return entity.Document{}, err
	}

	return repo.Document.GetDocumentByID(ctx, id)
}

func (s *documentService) ListDocuments(ctx context.Context, page, limit int) ([]entity.Document, int, error) {
	repo, err := s.documentRepository.NewClient(false)
	if err != nil {
		return nil, 0, err
	}

	documents, err := repo.Document.ListDocuments(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.Document.CountDocuments(ctx)
	if err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

// DeleteDocument removes the row first; a stale S3 object is only logged.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.documentRepository.NewClient(false)
	if err != nil {
		return err
	}

	doc, err := repo.Document.GetDocumentByID(ctx, id)
	if err != nil {
		return err
	}

	if err := repo.Document.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			return err
		}
		return document.ErrDeleteDocument
	}

	if doc.FileURL != "" {
		if err := s.s3.DeleteFile(doc.FileURL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to delete document object from S3")
		}
	}

	return nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return document.ErrNoFileUploaded
	case errors.Is(err, utils.ErrFileTooLarge):
		return document.ErrFileTooLarge
	case errors.Is(err, utils.ErrInvalidFileType):
		return document.ErrInvalidFileType
	}
	return err
}
