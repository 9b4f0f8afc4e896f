package documentRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docverify/internal/api/document"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type DocumentDB struct {
	ID                  sql.NullString  `db:"id"`
	OriginalFilename    sql.NullString  `db:"original_filename"`
	FileURL             sql.NullString  `db:"file_url"`
	Filesize            sql.NullInt64   `db:"filesize"`
	Mimetype            sql.NullString  `db:"mimetype"`
	RawText             sql.NullString  `db:"raw_text"`
	ExtractedData       []byte          `db:"extracted_data"`
	OCRConfidence       sql.NullFloat64 `db:"ocr_confidence"`
	OCREngine           sql.NullString  `db:"ocr_engine"`
	VerificationResults []byte          `db:"verification_results"`
	Status              sql.NullString  `db:"status"`
	ProcessingTimeMs    sql.NullInt64   `db:"processing_time_ms"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (r *documentRepository) CreateDocument(c context.Context, doc entity.Document) error {
	requestID := contextPkg.GetRequestID(c)

	extracted, err := doc.ExtractedData.MarshalJSON()
	if err != nil {
		return err
	}
	results, err := marshalResults(doc.VerificationResults)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":                   doc.ID,
		"original_filename":    doc.OriginalFilename,
		"file_url":             doc.FileURL,
		"filesize":             doc.Filesize,
		"mimetype":             doc.Mimetype,
		"raw_text":             doc.RawText,
		"extracted_data":       string(extracted),
		"ocr_confidence":       doc.OCRConfidence,
		"ocr_engine":           doc.OCREngine,
		"verification_results": results,
		"status":               string(doc.Status),
		"processing_time_ms":   doc.ProcessingTimeMs,
		"created_at":           doc.CreatedAt,
		"updated_at":           doc.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateDocument, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateDocument")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating document")
		return err
	}

	return nil
}

func (r *documentRepository) GetDocumentByID(c context.Context, id string) (entity.Document, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetDocumentByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDocumentByID named query preparation err")
		return entity.Document{}, err
	}
	query = r.q.Rebind(query)

	var row DocumentDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Document{}, document.ErrDocumentNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get document by ID")
		return entity.Document{}, err
	}

	return r.makeDocument(row)
}

func (r *documentRepository) ListDocuments(c context.Context, limit, offset int) ([]entity.Document, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryListDocuments, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []DocumentDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list documents")
		return nil, err
	}

	documents := make([]entity.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := r.makeDocument(row)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, nil
}

func (r *documentRepository) CountDocuments(c context.Context) (int, error) {
	var total int
	if err := r.q.GetContext(c, &total, queryCountDocuments); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to count documents")
		return 0, err
	}
	return total, nil
}

func (r *documentRepository) UpdateVerification(c context.Context, doc entity.Document) error {
	requestID := contextPkg.GetRequestID(c)

	results, err := marshalResults(doc.VerificationResults)
	if err != nil {
		return err
	}

	query, args, err := sqlx.Named(queryUpdateVerification, map[string]interface{}{
		"id":                   doc.ID,
		"verification_results": results,
		"status":               string(doc.Status),
		"updated_at":           time.Now(),
	})
	if err != nil {
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating document verification")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return document.ErrDocumentNotFound
	}

	return nil
}

func (r *documentRepository) DeleteDocument(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryDeleteDocument, map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting document")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return document.ErrDocumentNotFound
	}

	return nil
}

func (r *documentRepository) makeDocument(row DocumentDB) (entity.Document, error) {
	extracted := nlp.NewFieldMap()
	if len(row.ExtractedData) > 0 {
		if err := extracted.UnmarshalJSON(row.ExtractedData); err != nil {
			return entity.Document{}, err
		}
	}

	var results []verifier.FieldResult
	if len(row.VerificationResults) > 0 {
		if err := jsoniter.Unmarshal(row.VerificationResults, &results); err != nil {
			return entity.Document{}, err
		}
	}

	return entity.Document{
		ID:                  row.ID.String,
		OriginalFilename:    row.OriginalFilename.String,
		FileURL:             row.FileURL.String,
		Filesize:            row.Filesize.Int64,
		Mimetype:            row.Mimetype.String,
		RawText:             row.RawText.String,
		ExtractedData:       extracted,
		OCRConfidence:       row.OCRConfidence.Float64,
		OCREngine:           row.OCREngine.String,
		VerificationResults: results,
		Status:              entity.DocumentStatus(row.Status.String),
		ProcessingTimeMs:    row.ProcessingTimeMs.Int64,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func marshalResults(results []verifier.FieldResult) (string, error) {
	if results == nil {
		results = []verifier.FieldResult{}
	}
	return jsoniter.MarshalToString(results)
}
