package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nkhatri/udhaar/internal/models"
	"github.com/nkhatri/udhaar/internal/storage"
)

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	var photo interface{} = nil
	if account.Photo != "" {
		photo = account.Photo
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (phone, password_hash, role, name, photo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.Phone, account.PasswordHash, string(account.Role), account.Name, photo, account.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAccountExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// GetAccount retrieves an account by phone number.
func (s *SQLiteStore) GetAccount(ctx context.Context, phone string) (*models.Account, error) {
	account := &models.Account{}
	var photo sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT phone, password_hash, role, name, photo, created_at
		 FROM accounts WHERE phone = ?`,
		phone,
	).Scan(&account.Phone, &account.PasswordHash, &account.Role, &account.Name, &photo, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if photo.Valid {
		account.Photo = photo.String
	}

	return account, nil
}

// ListAccountsByRole retrieves all accounts with the given role.
func (s *SQLiteStore) ListAccountsByRole(ctx context.Context, role models.Role) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phone, password_hash, role, name, photo, created_at
		 FROM accounts WHERE role = ? ORDER BY phone`,
		string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by role: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		var photo sql.NullString

		if err := rows.Scan(&account.Phone, &account.PasswordHash, &account.Role, &account.Name, &photo, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if photo.Valid {
			account.Photo = photo.String
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// GetAccountsByPhones retrieves multiple accounts by phone number.
// Returns a map of phone to Account; numbers with no account are omitted.
func (s *SQLiteStore) GetAccountsByPhones(ctx context.Context, phones []string) (map[string]*models.Account, error) {
	if len(phones) == 0 {
		return make(map[string]*models.Account), nil
	}

	query := `SELECT phone, password_hash, role, name, photo, created_at
		 FROM accounts WHERE phone IN (?` + repeatPlaceholder(len(phones)-1) + `)`

	args := make([]interface{}, len(phones))
	for i, phone := range phones {
		args[i] = phone
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by phones: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]*models.Account)
	for rows.Next() {
		account := &models.Account{}
		var photo sql.NullString

		if err := rows.Scan(&account.Phone, &account.PasswordHash, &account.Role, &account.Name, &photo, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if photo.Valid {
			account.Photo = photo.String
		}
		accounts[account.Phone] = account
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(", ?", n)
}
