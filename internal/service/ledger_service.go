package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/ledger"
	"github.com/nkhatri/udhaar/internal/models"
	"github.com/nkhatri/udhaar/internal/storage"
)

// TransactionView is a transaction enriched with both counterparties'
// display attributes. When an identifier has no account the name falls
// back to the raw identifier and the photo stays empty.
type TransactionView struct {
	models.Transaction
	CustomerName  string `json:"customerName"`
	CustomerPhoto string `json:"customerPhoto,omitempty"`
	BusinessName  string `json:"businessName"`
	BusinessPhoto string `json:"businessPhoto,omitempty"`
}

// LedgerService records transactions and computes derived views, subject
// to the configured policies.
type LedgerService struct {
	store  storage.Store
	policy ledger.Policy
	logger *slog.Logger
}

// NewLedgerService creates a new LedgerService with the given storage
// backend and policy.
func NewLedgerService(store storage.Store, policy ledger.Policy, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, policy: policy, logger: logger}
}

// ListBusinesses returns the directory of owner-role accounts, projected
// to identifier and display attributes only.
func (s *LedgerService) ListBusinesses(ctx context.Context) ([]models.AccountSummary, error) {
	accounts, err := s.store.ListAccountsByRole(ctx, models.RoleOwner)
	if err != nil {
		s.logger.Error("ListBusinesses failed", "error", err)
		return nil, err
	}

	summaries := make([]models.AccountSummary, len(accounts))
	for i, account := range accounts {
		summaries[i] = account.Summary()
	}
	return summaries, nil
}

// CustomersForBusiness groups the business's transactions by customer,
// derives each balance and enriches with the customer's display
// attributes. Only the owner itself may call this.
func (s *LedgerService) CustomersForBusiness(ctx context.Context, caller auth.Identity, businessID string) ([]ledger.CustomerBalance, error) {
	if err := ledger.AuthorizeOwner(caller, businessID); err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, businessID, "")
	if err != nil {
		s.logger.Error("CustomersForBusiness failed", "business_id", businessID, "error", err)
		return nil, err
	}

	balances := ledger.CustomerBalances(txs, s.policy)

	phones := make([]string, len(balances))
	for i, b := range balances {
		phones[i] = b.CustomerID
	}
	accounts, err := s.store.GetAccountsByPhones(ctx, phones)
	if err != nil {
		s.logger.Error("CustomersForBusiness enrichment failed", "business_id", businessID, "error", err)
		return nil, err
	}
	for i := range balances {
		if account, ok := accounts[balances[i].CustomerID]; ok {
			balances[i].CustomerName = account.Name
			balances[i].CustomerPhoto = account.Photo
		}
	}

	return balances, nil
}

// Transactions lists the business's history, optionally narrowed to one
// customer and re-viewed through a presentation window, with both parties
// enriched. Authorization follows the configured read policy.
func (s *LedgerService) Transactions(ctx context.Context, caller auth.Identity, businessID, customerID string, w ledger.Window) ([]TransactionView, error) {
	if err := ledger.AuthorizeRead(caller, businessID, s.policy); err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, businessID, customerID)
	if err != nil {
		s.logger.Error("Transactions failed", "business_id", businessID, "error", err)
		return nil, err
	}
	txs = ledger.ApplyWindow(txs, w, time.Now())

	phones := make([]string, 0, len(txs)*2)
	seen := make(map[string]bool)
	for _, tx := range txs {
		for _, phone := range []string{tx.BusinessID, tx.CustomerID} {
			if !seen[phone] {
				seen[phone] = true
				phones = append(phones, phone)
			}
		}
	}
	accounts, err := s.store.GetAccountsByPhones(ctx, phones)
	if err != nil {
		s.logger.Error("Transactions enrichment failed", "business_id", businessID, "error", err)
		return nil, err
	}

	views := make([]TransactionView, len(txs))
	for i, tx := range txs {
		view := TransactionView{
			Transaction:  *tx,
			CustomerName: tx.CustomerID,
			BusinessName: tx.BusinessID,
		}
		if account, ok := accounts[tx.CustomerID]; ok {
			view.CustomerName = account.Name
			view.CustomerPhoto = account.Photo
		}
		if account, ok := accounts[tx.BusinessID]; ok {
			view.BusinessName = account.Name
			view.BusinessPhoto = account.Photo
		}
		views[i] = view
	}

	return views, nil
}

// Balance derives the running balance of an (owner, customer) pair. Either
// party may call this; nobody else.
func (s *LedgerService) Balance(ctx context.Context, caller auth.Identity, businessID, customerID string) (decimal.Decimal, error) {
	if err := ledger.Authorize(caller, businessID, customerID); err != nil {
		return decimal.Zero, err
	}

	txs, err := s.store.ListTransactions(ctx, businessID, customerID)
	if err != nil {
		s.logger.Error("Balance failed", "business_id", businessID, "customer_id", customerID, "error", err)
		return decimal.Zero, err
	}

	return ledger.Balance(txs, s.policy), nil
}

// Record validates, authorizes and appends a new transaction. All checks
// run before the append, so a rejected entry leaves the log untouched; the
// append itself cannot partially fail.
func (s *LedgerService) Record(ctx context.Context, caller auth.Identity, businessID, customerID, kind string, amount decimal.Decimal, description, photo string) (*models.Transaction, error) {
	parsedKind, err := ledger.ValidateNew(businessID, customerID, kind, amount)
	if err != nil {
		return nil, err
	}
	if err := ledger.Authorize(caller, businessID, customerID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		BusinessID:  businessID,
		CustomerID:  customerID,
		Kind:        parsedKind,
		Amount:      amount,
		Description: description,
		Photo:       photo,
	}
	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		s.logger.Error("Record failed", "business_id", businessID, "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	s.logger.Info("Transaction recorded",
		"id", tx.ID,
		"business_id", tx.BusinessID,
		"customer_id", tx.CustomerID,
		"type", tx.Kind,
		"amount", tx.Amount,
	)
	return tx, nil
}
