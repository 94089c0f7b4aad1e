// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/nkhatri/udhaar/internal/models"
)

// ErrAccountExists is returned by CreateAccount when the phone number is
// already registered. Implementations back this with a uniqueness
// constraint so concurrent signups cannot race past a read-then-write check.
var ErrAccountExists = errors.New("account already exists")

// Store defines the interface for account and transaction persistence.
// This abstraction allows swapping storage backends (SQLite, in-memory,
// PostgreSQL, etc.) without changing the service layer.
type Store interface {
	// CreateAccount persists a new account. Returns ErrAccountExists if
	// the phone number is already registered.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by phone number.
	// Returns (nil, nil) when the account does not exist.
	GetAccount(ctx context.Context, phone string) (*models.Account, error)

	// ListAccountsByRole retrieves all accounts with the given role,
	// ordered by phone number.
	ListAccountsByRole(ctx context.Context, role models.Role) ([]*models.Account, error)

	// GetAccountsByPhones retrieves multiple accounts by phone number.
	// Returns a map keyed by phone; numbers with no account are omitted.
	GetAccountsByPhones(ctx context.Context, phones []string) (map[string]*models.Account, error)

	// AppendTransaction appends a transaction to the ledger. The store
	// assigns ID, Timestamp and Seq; the entry is immutable afterwards.
	AppendTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions retrieves all transactions for a business, newest
	// first (timestamp, then insert sequence). When customerID is
	// non-empty the result is additionally filtered to that counterparty.
	ListTransactions(ctx context.Context, businessID, customerID string) ([]*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
