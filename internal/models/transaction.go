package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidKind is returned when a transaction type string is not one of
// the enumerated kinds.
var ErrInvalidKind = errors.New("invalid transaction type")

// Kind is the direction of a ledger entry. The wire values match the
// strings the clients send.
type Kind string

const (
	// KindCreditTaken increases what the customer owes the business.
	KindCreditTaken Kind = "Credit Taken"

	// KindPaymentMade decreases what the customer owes the business.
	KindPaymentMade Kind = "Payment Made"
)

// ParseKind converts a wire string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCreditTaken:
		return KindCreditTaken, nil
	case KindPaymentMade:
		return KindPaymentMade, nil
	}
	return "", ErrInvalidKind
}

// Transaction is one immutable entry in the append-only ledger between a
// business owner and a customer.
//
// BusinessID and CustomerID are not required to reference existing
// Accounts; views enrich them with display attributes when the account
// exists and fall back to the raw identifier otherwise.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format),
	// assigned by the store on append.
	ID string `json:"id"`

	// BusinessID is the owner-side phone number (wire name: businessId).
	BusinessID string `json:"businessId"`

	// CustomerID is the customer-side phone number.
	CustomerID string `json:"customerId"`

	// Kind is the entry direction (wire name: type).
	Kind Kind `json:"type"`

	// Amount is the positive monetary amount.
	Amount decimal.Decimal `json:"amount"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Photo is an optional opaque blob, e.g. a receipt image.
	Photo string `json:"photo,omitempty"`

	// Timestamp is the Unix time in milliseconds when the server accepted
	// the transaction.
	Timestamp int64 `json:"timestamp"`

	// Seq is the store-assigned insert sequence. It breaks ties between
	// entries accepted in the same millisecond so history ordering is
	// stable. Not serialized.
	Seq int64 `json:"-"`
}
