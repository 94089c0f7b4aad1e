// Package memory provides an in-memory implementation of the
// storage.Store interface. It backs tests and the STORE=memory deployment
// mode, where state lives only as long as the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkhatri/udhaar/internal/models"
	"github.com/nkhatri/udhaar/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps and slices.
// All methods are safe for concurrent use; account creation is serialized
// under the mutex so duplicate phone numbers cannot race past the check.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	txs      []*models.Transaction
	nextSeq  int64
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*models.Account),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateAccount stores a new account, failing on a duplicate phone number.
func (s *MemoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Phone]; exists {
		return storage.ErrAccountExists
	}
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	stored := *account
	s.accounts[account.Phone] = &stored
	return nil
}

// GetAccount retrieves an account by phone number, (nil, nil) when absent.
func (s *MemoryStore) GetAccount(ctx context.Context, phone string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[phone]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

// ListAccountsByRole retrieves all accounts with the given role, ordered
// by phone number.
func (s *MemoryStore) ListAccountsByRole(ctx context.Context, role models.Role) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []*models.Account
	for _, account := range s.accounts {
		if account.Role == role {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Phone < accounts[j].Phone })
	return accounts, nil
}

// GetAccountsByPhones retrieves multiple accounts; absent numbers are omitted.
func (s *MemoryStore) GetAccountsByPhones(ctx context.Context, phones []string) (map[string]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make(map[string]*models.Account)
	for _, phone := range phones {
		if account, ok := s.accounts[phone]; ok {
			copied := *account
			accounts[phone] = &copied
		}
	}
	return accounts, nil
}

// AppendTransaction appends to the ledger, assigning ID, Timestamp and Seq.
func (s *MemoryStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}
	s.nextSeq++
	tx.Seq = s.nextSeq

	stored := *tx
	s.txs = append(s.txs, &stored)
	return nil
}

// ListTransactions retrieves all transactions for a business, newest first.
func (s *MemoryStore) ListTransactions(ctx context.Context, businessID, customerID string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []*models.Transaction
	for _, tx := range s.txs {
		if tx.BusinessID != businessID {
			continue
		}
		if customerID != "" && tx.CustomerID != customerID {
			continue
		}
		copied := *tx
		txs = append(txs, &copied)
	}

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp > txs[j].Timestamp
		}
		return txs[i].Seq > txs[j].Seq
	})
	return txs, nil
}
