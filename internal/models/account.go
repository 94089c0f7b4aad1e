package models

import "errors"

// ErrInvalidRole is returned when a role string is not one of the
// enumerated account roles.
var ErrInvalidRole = errors.New("invalid userType")

// Role identifies which side of the ledger an account sits on.
type Role string

const (
	// RoleCustomer is a customer who takes credit from and makes payments
	// to business owners.
	RoleCustomer Role = "customer"

	// RoleOwner is a business owner extending credit to customers.
	RoleOwner Role = "owner"
)

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleOwner:
		return RoleOwner, nil
	}
	return "", ErrInvalidRole
}

// Account represents a registered party.
//
// The phone number is the unique identifier across all accounts. Accounts
// are created at signup and never mutated or deleted.
type Account struct {
	// Phone is the unique identifier (wire name: phoneNumber).
	Phone string `json:"phoneNumber"`

	// PasswordHash is the bcrypt hash of the credential. Never serialized.
	PasswordHash string `json:"-"`

	// Role is fixed at signup.
	Role Role `json:"userType"`

	// Name is the display name shown to counterparties.
	Name string `json:"name"`

	// Photo is an optional opaque blob (the clients send data URLs).
	Photo string `json:"photo,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"-"`
}

// AccountSummary is the directory projection of an Account: identifier and
// display attributes only, never the credential hash.
type AccountSummary struct {
	Phone string `json:"phoneNumber"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Summary projects the account to its public directory form.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{Phone: a.Phone, Name: a.Name, Photo: a.Photo}
}
