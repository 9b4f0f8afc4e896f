package adminService

import (
	"os"
	"time"

	"docverify/internal/api/admin"
	"docverify/internal/entity"
	"docverify/pkg/bcrypt"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAdminService interface {
	Login(ctx context.Context, req admin.LoginRequest) (admin.LoginResponse, error)
}

// Credentials is the single operator account. PasswordHash is a bcrypt hash.
type Credentials struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// CredentialsFromEnv reads ADMIN_ID, ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD_HASH.
func CredentialsFromEnv() Credentials {
	id := os.Getenv("ADMIN_ID")
	if id == "" {
		id = "admin"
	}
	return Credentials{
		ID:           id,
		Username:     os.Getenv("ADMIN_USERNAME"),
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}

func (c Credentials) configured() bool {
	return c.Username != "" && c.PasswordHash != ""
}

func (c Credentials) loginData() entity.AdminLoginData {
	return entity.AdminLoginData{ID: c.ID, Username: c.Username, Email: c.Email}
}

type adminService struct {
	log         *logrus.Logger
	credentials Credentials
	bcryptUtils bcrypt.IBcrypt
	tokenTTL    time.Duration
	secretKey   string
}

func NewAdminService(
	log *logrus.Logger,
	credentials Credentials,
	bcryptUtils bcrypt.IBcrypt,
	secretKey string,
) IAdminService {
	return &adminService{
		log:         log,
		credentials: credentials,
		bcryptUtils: bcryptUtils,
		tokenTTL:    time.Hour,
		secretKey:   secretKey,
	}
}
