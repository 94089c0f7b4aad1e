package service

import (
	"context"
	"log/slog"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/models"
)

// AuthService implements signup and login on top of an Authenticator and
// a token manager.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		logger:        logger,
	}
}

// Signup creates a new account. The role is fixed at creation and the raw
// password never leaves the authenticator.
func (s *AuthService) Signup(ctx context.Context, phone, password string, role models.Role, name, photo string) (*models.Account, error) {
	account, err := s.authenticator.Register(ctx, phone, password, role, name, photo)
	if err != nil {
		s.logger.Warn("Signup failed", "phone", phone, "error", err)
		return nil, err
	}

	s.logger.Info("Account registered", "phone", account.Phone, "role", account.Role)
	return account, nil
}

// Login verifies the credentials and returns a signed, time-bounded token
// carrying the caller's identity and display attributes.
func (s *AuthService) Login(ctx context.Context, phone, password string) (string, *models.Account, error) {
	account, err := s.authenticator.Authenticate(ctx, phone, password)
	if err != nil {
		s.logger.Warn("Login failed", "phone", phone, "error", err)
		return "", nil, err
	}

	token, err := s.tokens.Generate(account)
	if err != nil {
		s.logger.Error("Failed to generate token", "phone", account.Phone, "error", err)
		return "", nil, err
	}

	s.logger.Info("Login successful", "phone", account.Phone, "role", account.Role)
	return token, account, nil
}
