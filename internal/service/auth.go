package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/security"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)

type authService struct {
	admins []domain.Admin
	tokens security.TokenManager
}

func NewAuthService(admins []domain.Admin, tokens security.TokenManager) AuthService {
	return &authService{admins: admins, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	logger.EnterMethod("authService.Login", "username", username)

	var admin *domain.Admin
	for i := range s.admins {
		if strings.EqualFold(s.admins[i].Username, username) {
			admin = &s.admins[i]
			break
		}
	}
	if admin == nil {
		logger.Warn("Login attempt for unknown admin", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login attempt with wrong password", "username", admin.Username)
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(admin.Username, []string{"admin"})
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return "", time.Time{}, err
	}

	logger.ExitMethod("authService.Login", "username", admin.Username)
	return token, expiresAt, nil
}
