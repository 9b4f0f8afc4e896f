package document

import (
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"
)

type ParseTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type ListDocumentsQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type ExtractResponse struct {
	DocumentID       string        `json:"document_id"`
	ExtractedText    string        `json:"extracted_text"`
	ParsedData       *nlp.FieldMap `json:"parsed_data"`
	Confidence       float64       `json:"confidence"`
	Engine           string        `json:"engine"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
	WordCount        int           `json:"word_count"`
}

type ParseTextResponse struct {
	ParsedData *nlp.FieldMap `json:"parsed_data"`
	FieldCount int           `json:"field_count"`
}

type DocumentResponse struct {
	ID                  string                 `json:"id"`
	OriginalFilename    string                 `json:"original_filename"`
	FileURL             string                 `json:"file_url"`
	Filesize            int64                  `json:"filesize"`
	Mimetype            string                 `json:"mimetype"`
	RawText             string                 `json:"raw_text,omitempty"`
	ExtractedData       *nlp.FieldMap          `json:"extracted_data"`
	OCRConfidence       float64                `json:"ocr_confidence"`
	OCREngine           string                 `json:"ocr_engine,omitempty"`
	VerificationResults []verifier.FieldResult `json:"verification_results"`
	Status              string                 `json:"status"`
	ProcessingTimeMs    int64                  `json:"processing_time_ms"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

type DocumentListResponse struct {
	Documents  []DocumentResponse `json:"documents"`
	Pagination Pagination         `json:"pagination"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Normalize applies the defaults page 1 and limit 10.
func (q *ListDocumentsQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}

// ScanResponse is sent for every frame on the live scan socket. Ready is set
// once the frame shows a name plus a date of birth, phone or email, and
// Missing lists the identity fields still unreadable.
type ScanResponse struct {
	ExtractedText string        `json:"extracted_text"`
	ParsedData    *nlp.FieldMap `json:"parsed_data"`
	Confidence    float64       `json:"confidence"`
	Engine        string        `json:"engine"`
	FieldCount    int           `json:"field_count"`
	Ready         bool          `json:"ready"`
	Missing       []string      `json:"missing"`
}
