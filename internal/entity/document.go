package entity

import (
	"time"

	"docverify/pkg/nlp"
	"docverify/pkg/verifier"
)

type DocumentStatus string

const (
	DocumentUploaded  DocumentStatus = "uploaded"
	DocumentProcessed DocumentStatus = "processed"
	DocumentVerified  DocumentStatus = "verified"
	DocumentError     DocumentStatus = "error"
)

type Document struct {
	ID                  string
	OriginalFilename    string
	FileURL             string
	Filesize            int64
	Mimetype            string
	RawText             string
	ExtractedData       *nlp.FieldMap
	OCRConfidence       float64
	OCREngine           string
	VerificationResults []verifier.FieldResult
	Status              DocumentStatus
	ProcessingTimeMs    int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
