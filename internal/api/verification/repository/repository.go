package verificationRepository

import (
	documentRepository "docverify/internal/api/document/repository"
	"docverify/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

// NewClient returns stores sharing one executor, so a registration and the
// document it verifies commit together when tx is set.
func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor documentRepository.SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Registration: &registrationRepository{q: sqlExecutor, log: r.log},
		Document:     documentRepository.NewStore(sqlExecutor, r.log),
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

// SearchColumn names a registration column that can be searched.
type SearchColumn string

const (
	SearchName  SearchColumn = "name"
	SearchEmail SearchColumn = "email"
	SearchPhone SearchColumn = "phone"
)

type RegistrationStore interface {
	CreateRegistration(c context.Context, registration entity.Registration) error
	GetRegistrationByID(c context.Context, id string) (entity.Registration, error)
	ListRegistrations(c context.Context, limit, offset int) ([]entity.Registration, error)
	CountRegistrations(c context.Context) (int, error)
	// SearchRegistrations matches term as a case-insensitive substring of
	// the given columns, or of name, email and phone when none are given.
	SearchRegistrations(c context.Context, term string, limit int, columns ...SearchColumn) ([]entity.Registration, error)
}

type Client struct {
	Registration RegistrationStore
	Document     documentRepository.DocumentStore

	Commit   func() error
	Rollback func() error
}

type registrationRepository struct {
	q   documentRepository.SQLExecutor
	log *logrus.Logger
}
