package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

// CreateAccount persists a new account.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createAccountIn(ctx, s.db, account)
}

// GetAccount returns an account by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getAccountIn(ctx, s.db, id)
}

// GetAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccountsIn(ctx, s.db)
}

// UpdateAccount updates an account's name and type. Balance is never written
// here; only AdjustAccountBalance and Repair touch it.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateAccountIn(ctx, s.db, account)
}

// DeleteAccount removes an account. Historical entries keep their accountID
// and degrade to "Unknown" in read views.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteAccountIn(ctx, s.db, id)
}

// AdjustAccountBalance applies a signed delta as a single SQL increment.
func (s *SQLiteStorage) AdjustAccountBalance(ctx context.Context, accountID string, delta model.Money) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	return adjustAccountBalanceIn(ctx, s.db, accountID, delta)
}

func createAccountIn(ctx context.Context, q querier, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.Name, account.Type, int64(account.Balance), now, now)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	slog.Info("created account", "id", account.ID, "name", account.Name, "type", account.Type)
	return nil
}

func getAccountIn(ctx context.Context, q querier, id string) (*model.Account, error) {
	var account model.Account
	var balance int64
	err := q.QueryRowContext(ctx, `
		SELECT id, name, type, balance, created_at, updated_at
		FROM accounts WHERE id = ?`, id).Scan(
		&account.ID, &account.Name, &account.Type, &balance,
		&account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	account.Balance = model.Money(balance)
	return &account, nil
}

func getAccountsIn(ctx context.Context, q querier) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, type, balance, created_at, updated_at
		FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		var balance int64
		if err := rows.Scan(&account.ID, &account.Name, &account.Type, &balance,
			&account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Balance = model.Money(balance)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

func updateAccountIn(ctx context.Context, q querier, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, updated_at = ?
		WHERE id = ?`,
		account.Name, account.Type, time.Now().UTC(), account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %s", common.ErrNotFound, account.ID)
	}
	return nil
}

func deleteAccountIn(ctx context.Context, q querier, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	slog.Info("deleted account", "id", id)
	return nil
}

func adjustAccountBalanceIn(ctx context.Context, q querier, accountID string, delta model.Money) error {
	result, err := q.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + ?, updated_at = ?
		WHERE id = ?`,
		int64(delta), time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjustment result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %s", common.ErrNotFound, accountID)
	}

	slog.Debug("adjusted account balance", "account_id", accountID, "delta", delta)
	return nil
}
