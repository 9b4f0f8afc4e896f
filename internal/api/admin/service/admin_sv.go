package adminService

import (
	"crypto/subtle"
	"time"

	"docverify/internal/api/admin"
	contextPkg "docverify/pkg/context"
	jwtPkg "docverify/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *adminService) Login(c context.Context, req admin.LoginRequest) (admin.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if !s.credentials.configured() {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Error("Admin login attempted without configured credentials")
		return admin.LoginResponse{}, admin.ErrAdminNotConfigured
	}

	// the hash is always checked so a wrong username costs the same time
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.credentials.Username)) == 1
	passwordErr := s.bcryptUtils.ComparePassword(s.credentials.PasswordHash, req.Password)
	if !usernameOK || passwordErr != nil {
		fields := logrus.Fields{"request_id": requestID}
		if passwordErr != nil {
			fields["error"] = passwordErr.Error()
		}
		s.log.WithFields(fields).Warn("Admin login failed")
		return admin.LoginResponse{}, admin.ErrInvalidCredentials
	}

	data := s.credentials.loginData()
	token, expired, err := jwtPkg.Sign(map[string]interface{}{
		"id":       data.ID,
		"email":    data.Email,
		"username": data.Username,
	}, s.tokenTTL, s.secretKey)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return admin.LoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Admin token created")

	return admin.LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}
