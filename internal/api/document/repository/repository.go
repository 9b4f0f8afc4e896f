package documentRepository

import (
	"docverify/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

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

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
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
		Document: NewStore(sqlExecutor, r.log),
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type DocumentStore interface {
	CreateDocument(c context.Context, document entity.Document) error
	GetDocumentByID(c context.Context, id string) (entity.Document, error)
	ListDocuments(c context.Context, limit, offset int) ([]entity.Document, error)
	CountDocuments(c context.Context) (int, error)
	UpdateVerification(c context.Context, document entity.Document) error
	DeleteDocument(c context.Context, id string) error
}

type Client struct {
	Document DocumentStore

	Commit   func() error
	Rollback func() error
}

type documentRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

// NewStore binds a DocumentStore to q, which may be a transaction owned by
// another repository.
func NewStore(q SQLExecutor, log *logrus.Logger) DocumentStore {
	return &documentRepository{q: q, log: log}
}
