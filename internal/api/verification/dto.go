package verification

import (
	"strings"

	"docverify/internal/entity"
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"
)

type PersonalInfo struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	MiddleName  string `json:"middle_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Gender      string `json:"gender" validate:"omitempty,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,max=30"`
	Age         string `json:"age" validate:"omitempty,numeric,max=3"`
	Nationality string `json:"nationality" validate:"omitempty,max=100"`
	Occupation  string `json:"occupation" validate:"omitempty,max=100"`
}

type ContactInfo struct {
	Phone            string `json:"phone" validate:"required,max=30"`
	Email            string `json:"email" validate:"required,email"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=30"`
}

type Address struct {
	Line1   string `json:"line1" validate:"omitempty,max=200"`
	Line2   string `json:"line2" validate:"omitempty,max=200"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	PinCode string `json:"pin_code" validate:"omitempty,max=12"`
}

type RegisterRequest struct {
	DocumentID   string       `json:"document_id" validate:"required"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	ContactInfo  ContactInfo  `json:"contact_info"`
	Address      Address      `json:"address"`
}

// ToFieldMap flattens the request in the order results are reported.
// Blank values are kept; the verifier skips them.
func (r RegisterRequest) ToFieldMap() *nlp.FieldMap {
	m := nlp.NewFieldMap()
	m.Set(nlp.FieldFirstName, r.PersonalInfo.FirstName)
	m.Set(nlp.FieldMiddleName, r.PersonalInfo.MiddleName)
	m.Set(nlp.FieldLastName, r.PersonalInfo.LastName)
	m.Set(nlp.FieldGender, r.PersonalInfo.Gender)
	m.Set(nlp.FieldDateOfBirth, r.PersonalInfo.DateOfBirth)
	m.Set(nlp.FieldAge, r.PersonalInfo.Age)
	m.Set(nlp.FieldNationality, r.PersonalInfo.Nationality)
	m.Set(nlp.FieldOccupation, r.PersonalInfo.Occupation)
	m.Set(nlp.FieldPhone, r.ContactInfo.Phone)
	m.Set(nlp.FieldEmail, r.ContactInfo.Email)
	m.Set(nlp.FieldEmergencyContact, r.ContactInfo.EmergencyContact)
	m.Set(nlp.FieldAddressLine1, r.Address.Line1)
	m.Set(nlp.FieldAddressLine2, r.Address.Line2)
	m.Set(nlp.FieldCity, r.Address.City)
	m.Set(nlp.FieldState, r.Address.State)
	m.Set(nlp.FieldPinCode, r.Address.PinCode)
	return m
}

// FullName joins the non-blank name parts.
func (r RegisterRequest) FullName() string {
	var parts []string
	for _, p := range []string{r.PersonalInfo.FirstName, r.PersonalInfo.MiddleName, r.PersonalInfo.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ClientInfo identifies where a registration was submitted from.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type CompareRequest struct {
	Extracted *nlp.FieldMap `json:"extracted" validate:"required"`
	Submitted *nlp.FieldMap `json:"submitted" validate:"required"`
}

type RegisterResponse struct {
	RegistrationID     string                 `json:"registration_id"`
	DocumentID         string                 `json:"document_id"`
	VerificationStatus string                 `json:"verification_status"`
	Results            []verifier.FieldResult `json:"verification_results"`
	Summary            verifier.Summary       `json:"summary"`
	ProcessingTimeMs   int64                  `json:"processing_time_ms"`
}

type RegistrationResponse struct {
	ID                  string                 `json:"id"`
	DocumentID          string                 `json:"document_id"`
	Name                string                 `json:"name"`
	Email               string                 `json:"email"`
	Phone               string                 `json:"phone"`
	SubmittedData       *nlp.FieldMap          `json:"submitted_data"`
	VerificationResults []verifier.FieldResult `json:"verification_results"`
	Summary             verifier.Summary       `json:"summary"`
	VerificationStatus  string                 `json:"verification_status"`
	ProcessingTimeMs    int64                  `json:"processing_time_ms"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

type ListRegistrationsQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the defaults page 1 and limit 10.
func (q *ListRegistrationsQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}

type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Pagination    Pagination             `json:"pagination"`
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

type SearchQuery struct {
	Query string `query:"query" validate:"required,max=100"`
	Field string `query:"field" validate:"omitempty,oneof=name email phone"`
}

// SearchResult is a registration ranked by how closely Field resembles the
// query.
type SearchResult struct {
	Registration entity.Registration
	Score        float64
}

type SearchHit struct {
	RegistrationResponse
	Score float64 `json:"score"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Field   string      `json:"field"`
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}
