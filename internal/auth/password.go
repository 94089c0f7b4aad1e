package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nkhatri/udhaar/internal/models"
	"github.com/nkhatri/udhaar/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrAccountExists      = errors.New("user already exists")
)

// AccountStorage defines the interface for account persistence operations.
// This keeps the authenticator independent of the storage implementation.
type AccountStorage interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, phone string) (*models.Account, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage AccountStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage AccountStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 6 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new account with a hashed password. The raw password
// is never stored. The store's uniqueness constraint on the phone number
// is the final arbiter, so two concurrent signups cannot both succeed.
func (a *PasswordAuthenticator) Register(ctx context.Context, phone, credential string, role models.Role, name, photo string) (*models.Account, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existing, err := a.storage.GetAccount(ctx, phone)
	if err == nil && existing != nil {
		return nil, ErrAccountExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         role,
		Name:         name,
		Photo:        photo,
		CreatedAt:    time.Now().Unix(),
	}

	if err := a.storage.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Authenticate verifies the phone number and password, returning the
// account if valid. Unknown phone and wrong password are indistinguishable
// to the caller.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, phone, credential string) (*models.Account, error) {
	account, err := a.storage.GetAccount(ctx, phone)
	if err != nil || account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
