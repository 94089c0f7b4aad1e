// Package ledger implements the balance computation and consistency rules
// for the append-only transaction log: validation of new entries,
// party-based authorization, derived balances, grouped per-customer views
// and presentation ordering.
//
// Everything here is a pure function over models.Transaction slices; the
// package holds no state and performs no I/O, which keeps the invariants
// (balance recomputation, append-only ordering, authorization totality)
// directly table-testable.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/models"
)

var (
	// ErrForbidden means the caller is authenticated but not a party
	// entitled to the operation.
	ErrForbidden = errors.New("unauthorized")

	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("missing required fields")
)

// ReadPolicy selects who may list a business's transactions.
type ReadPolicy int

const (
	// ReadOwnerOnly restricts transaction listing to the business owner.
	ReadOwnerOnly ReadPolicy = iota

	// ReadAnyCustomer additionally admits any caller holding the customer
	// role, not only the counterparty.
	ReadAnyCustomer
)

// Policy carries the configurable consistency rules. The zero value is the
// strict variant: balances clamp at zero and only owners list transactions.
type Policy struct {
	// AllowNegativeBalance lets a balance go below zero to represent the
	// customer being in credit. When false the balance floors at zero.
	AllowNegativeBalance bool

	// Read selects the transaction-listing authorization variant.
	Read ReadPolicy
}

// Authorize checks that the caller is one of the two parties of the
// (business, customer) pair. Every protected pair operation runs this
// before touching the log.
func Authorize(caller auth.Identity, businessID, customerID string) error {
	if caller.Phone == businessID || caller.Phone == customerID {
		return nil
	}
	return ErrForbidden
}

// AuthorizeRead checks that the caller may list the business's
// transactions under the configured read policy.
func AuthorizeRead(caller auth.Identity, businessID string, p Policy) error {
	if caller.Phone == businessID {
		return nil
	}
	if p.Read == ReadAnyCustomer && caller.Role == models.RoleCustomer {
		return nil
	}
	return ErrForbidden
}

// AuthorizeOwner checks that the caller is the business itself. Used by
// the grouped per-customer balance view, which only the owner may see.
func AuthorizeOwner(caller auth.Identity, businessID string) error {
	if caller.Phone == businessID {
		return nil
	}
	return ErrForbidden
}

// ValidateNew checks a candidate entry before it is appended: both party
// identifiers and the kind must be present, the kind must be one of the
// two enumerated values, and the amount must be strictly positive. All
// checks run before any mutation, so a rejected entry leaves no trace.
func ValidateNew(businessID, customerID, kind string, amount decimal.Decimal) (models.Kind, error) {
	if businessID == "" || customerID == "" || kind == "" {
		return "", ErrValidation
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}
	return models.ParseKind(kind)
}
