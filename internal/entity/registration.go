package entity

import (
	"time"

	"docverify/pkg/nlp"
	"docverify/pkg/verifier"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type Registration struct {
	ID                  string
	DocumentID          string
	Name                string
	Email               string
	Phone               string
	SubmittedData       *nlp.FieldMap
	VerificationResults []verifier.FieldResult
	Summary             verifier.Summary
	VerificationStatus  VerificationStatus
	IPAddress           string
	UserAgent           string
	ProcessingTimeMs    int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
