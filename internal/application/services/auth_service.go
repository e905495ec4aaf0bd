package services

import (
	"fmt"

	"github.com/beaconworks/beacon-go/internal/domain/admin"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// AuthService authenticates back-office admins and issues session tokens.
type AuthService struct {
	adminRepo admin.Repository
	logger    *logging.ChanneledLogger
}

// NewAuthService creates a new auth service.
func NewAuthService(adminRepo admin.Repository, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		logger:    logger,
	}
}

// Login verifies admin credentials and returns a signed JWT. The error
// message is identical for unknown email and wrong password.
func (s *AuthService) Login(email, password string) (string, *admin.Admin, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("email and password are required")
	}

	account, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if account == nil || !security.CheckPassword(account.PasswordHash, password) {
		s.logger.Auth().Warn("Failed admin login attempt", "email", email)
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := security.GenerateAdminToken(account.ID, account.Email, config.JWTSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Auth().Info("Admin logged in", "adminId", account.ID)
	return token, account, nil
}

// ValidateToken checks a bearer token and returns the admin claims.
func (s *AuthService) ValidateToken(token string) (*security.AdminClaims, error) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	adminClaims := security.GetAdminFromClaims(claims)
	if adminClaims == nil || adminClaims.Role != "admin" {
		return nil, fmt.Errorf("token is not an admin token")
	}
	return adminClaims, nil
}
