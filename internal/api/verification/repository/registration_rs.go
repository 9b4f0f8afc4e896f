package verificationRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"docverify/internal/api/verification"
	"docverify/internal/entity"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/nlp"
	"docverify/pkg/verifier"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

type RegistrationDB struct {
	ID                  sql.NullString `db:"id"`
	DocumentID          sql.NullString `db:"document_id"`
	Name                sql.NullString `db:"name"`
	Email               sql.NullString `db:"email"`
	Phone               sql.NullString `db:"phone"`
	SubmittedData       []byte         `db:"submitted_data"`
	VerificationResults []byte         `db:"verification_results"`
	Summary             []byte         `db:"summary"`
	VerificationStatus  sql.NullString `db:"verification_status"`
	IPAddress           sql.NullString `db:"ip_address"`
	UserAgent           sql.NullString `db:"user_agent"`
	ProcessingTimeMs    sql.NullInt64  `db:"processing_time_ms"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r *registrationRepository) CreateRegistration(c context.Context, reg entity.Registration) error {
	requestID := contextPkg.GetRequestID(c)

	submitted, err := reg.SubmittedData.MarshalJSON()
	if err != nil {
		return err
	}
	results := reg.VerificationResults
	if results == nil {
		results = []verifier.FieldResult{}
	}
	resultsJSON, err := jsoniter.MarshalToString(results)
	if err != nil {
		return err
	}
	summaryJSON, err := jsoniter.MarshalToString(reg.Summary)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":                   reg.ID,
		"document_id":          reg.DocumentID,
		"name":                 reg.Name,
		"email":                reg.Email,
		"phone":                reg.Phone,
		"submitted_data":       string(submitted),
		"verification_results": resultsJSON,
		"summary":              summaryJSON,
		"verification_status":  string(reg.VerificationStatus),
		"ip_address":           reg.IPAddress,
		"user_agent":           reg.UserAgent,
		"processing_time_ms":   reg.ProcessingTimeMs,
		"created_at":           reg.CreatedAt,
		"updated_at":           reg.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRegistration, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRegistration")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return verification.ErrEmailAlreadyRegistered
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating registration")
		return err
	}

	return nil
}

func (r *registrationRepository) GetRegistrationByID(c context.Context, id string) (entity.Registration, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetRegistrationByID, map[string]interface{}{"id": id})
	if err != nil {
		return entity.Registration{}, err
	}
	query = r.q.Rebind(query)

	var row RegistrationDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Registration{}, verification.ErrRegistrationNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get registration by ID")
		return entity.Registration{}, err
	}

	return makeRegistration(row)
}

func (r *registrationRepository) ListRegistrations(c context.Context, limit, offset int) ([]entity.Registration, error) {
	query, args, err := sqlx.Named(queryListRegistrations, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, err
	}

	return r.selectRegistrations(c, r.q.Rebind(query), args)
}

func (r *registrationRepository) CountRegistrations(c context.Context) (int, error) {
	var total int
	if err := r.q.GetContext(c, &total, queryCountRegistrations); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to count registrations")
		return 0, err
	}
	return total, nil
}

func (r *registrationRepository) SearchRegistrations(c context.Context, term string, limit int, columns ...SearchColumn) ([]entity.Registration, error) {
	if len(columns) == 0 {
		columns = []SearchColumn{SearchName, SearchEmail, SearchPhone}
	}

	predicates := make([]string, 0, len(columns))
	for _, col := range columns {
		switch col {
		case SearchName, SearchEmail, SearchPhone:
			predicates = append(predicates, string(col)+` ILIKE :term ESCAPE '\'`)
		default:
			return nil, verification.ErrInvalidSearchField
		}
	}

	query, args, err := sqlx.Named(
		fmt.Sprintf(querySearchRegistrations, strings.Join(predicates, " OR ")),
		map[string]interface{}{
			"term":  "%" + escapeLike(term) + "%",
			"limit": limit,
		},
	)
	if err != nil {
		return nil, err
	}

	return r.selectRegistrations(c, r.q.Rebind(query), args)
}

func (r *registrationRepository) selectRegistrations(c context.Context, query string, args []interface{}) ([]entity.Registration, error) {
	var rows []RegistrationDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to select registrations")
		return nil, err
	}

	registrations := make([]entity.Registration, 0, len(rows))
	for _, row := range rows {
		reg, err := makeRegistration(row)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}

	return registrations, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func makeRegistration(row RegistrationDB) (entity.Registration, error) {
	submitted := nlp.NewFieldMap()
	if len(row.SubmittedData) > 0 {
		if err := submitted.UnmarshalJSON(row.SubmittedData); err != nil {
			return entity.Registration{}, err
		}
	}

	var results []verifier.FieldResult
	if len(row.VerificationResults) > 0 {
		if err := jsoniter.Unmarshal(row.VerificationResults, &results); err != nil {
			return entity.Registration{}, err
		}
	}

	var summary verifier.Summary
	if len(row.Summary) > 0 {
		if err := jsoniter.Unmarshal(row.Summary, &summary); err != nil {
			return entity.Registration{}, err
		}
	}

	return entity.Registration{
		ID:                  row.ID.String,
		DocumentID:          row.DocumentID.String,
		Name:                row.Name.String,
		Email:               row.Email.String,
		Phone:               row.Phone.String,
		SubmittedData:       submitted,
		VerificationResults: results,
		Summary:             summary,
		VerificationStatus:  entity.VerificationStatus(row.VerificationStatus.String),
		IPAddress:           row.IPAddress.String,
		UserAgent:           row.UserAgent.String,
		ProcessingTimeMs:    row.ProcessingTimeMs.Int64,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}
