package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/models"
)

// AppendTransaction persists a new transaction to the ledger. ID and
// Timestamp are assigned here; Seq comes from the autoincrement column so
// insert order is recoverable even for same-millisecond entries.
func (s *SQLiteStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}

	var description interface{} = nil
	if tx.Description != "" {
		description = tx.Description
	}
	var photo interface{} = nil
	if tx.Photo != "" {
		photo = tx.Photo
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, business_id, customer_id, kind, amount, description, photo, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.BusinessID, tx.CustomerID, string(tx.Kind), tx.Amount.String(), description, photo, tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read insert sequence: %w", err)
	}
	tx.Seq = seq

	return nil
}

// ListTransactions retrieves all transactions for a business, newest
// first. A non-empty customerID narrows the result to one counterparty.
func (s *SQLiteStore) ListTransactions(ctx context.Context, businessID, customerID string) ([]*models.Transaction, error) {
	query := `SELECT seq, id, business_id, customer_id, kind, amount, description, photo, timestamp
		 FROM transactions WHERE business_id = ?`
	args := []interface{}{businessID}
	if customerID != "" {
		query += " AND customer_id = ?"
		args = append(args, customerID)
	}
	query += " ORDER BY timestamp DESC, seq DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		var amount string
		var description, photo sql.NullString

		if err := rows.Scan(&tx.Seq, &tx.ID, &tx.BusinessID, &tx.CustomerID, &tx.Kind, &amount, &description, &photo, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		if description.Valid {
			tx.Description = description.String
		}
		if photo.Valid {
			tx.Photo = photo.String
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
