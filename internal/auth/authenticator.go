package auth

import (
	"context"

	"github.com/nkhatri/udhaar/internal/models"
)

// Identity is the assertion carried by a verified token: who the caller
// is, plus the display attributes baked in at login time.
type Identity struct {
	Phone string
	Role  models.Role
	Name  string
	Photo string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, OTP, OAuth, etc.) without changing the handler layer.
type Authenticator interface {
	// Register creates a new account with the given phone number and
	// credential. Returns the created account or an error if registration
	// fails (weak credential, duplicate phone number, storage failure).
	Register(ctx context.Context, phone, credential string, role models.Role, name, photo string) (*models.Account, error)

	// Authenticate verifies the credential and returns the account if
	// successful. Returns ErrInvalidCredentials when the phone number is
	// unknown or the credential does not match.
	Authenticate(ctx context.Context, phone, credential string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements (length, format, etc.).
	ValidateCredential(credential string) error
}
