package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, user_id, account_type, balance, status, created_at, updated_at, last_transaction_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.AccountNumber, account.UserID, account.AccountType,
		account.Balance, account.Status,
		account.CreatedAt, account.UpdatedAt, account.LastTransactionAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountWriteRepository) GetByID(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, account_number, user_id, account_type, balance, status, created_at, updated_at, last_transaction_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID, &account.AccountNumber, &account.UserID, &account.AccountType,
		&account.Balance, &account.Status,
		&account.CreatedAt, &account.UpdatedAt, &account.LastTransactionAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", accountID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Exists is the side-effect-free existence check used by the transfer
// coordinator for pre-validation.
func (r *AccountWriteRepository) Exists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

func (r *AccountWriteRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	query := `
		SELECT id, account_number, user_id, account_type, balance, status, created_at, updated_at, last_transaction_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.AccountNumber, &account.UserID, &account.AccountType,
			&account.Balance, &account.Status,
			&account.CreatedAt, &account.UpdatedAt, &account.LastTransactionAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Transfer moves amount from one account to the other as a single unit of
// work. Both rows are locked in ascending id order so that two transfers
// touching the same pair of accounts cannot deadlock, the sufficient-funds
// check runs against the locked balance, and both mutations commit together.
// On the insufficient-funds path neither balance changes.
func (r *AccountWriteRepository) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback()

	lockOrder := []uuid.UUID{fromID, toID}
	if toID.String() < fromID.String() {
		lockOrder = []uuid.UUID{toID, fromID}
	}
	if fromID == toID {
		lockOrder = lockOrder[:1]
	}

	balances := make(map[uuid.UUID]decimal.Decimal, 2)
	for _, id := range lockOrder {
		var balance decimal.Decimal
		err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
		if err == sql.ErrNoRows {
			return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", id, err)
		}
		balances[id] = balance
	}

	if balances[fromID].LessThan(amount) {
		return fmt.Errorf("account %s: %w", fromID, errs.ErrInsufficientFunds)
	}

	now := time.Now().UTC()
	update := `UPDATE accounts SET balance = $2, updated_at = $3, last_transaction_at = $3 WHERE id = $1`

	if fromID == toID {
		// Net no-op on the balance; still counts as activity on the account.
		if _, err := tx.ExecContext(ctx, update, fromID, balances[fromID], now); err != nil {
			return fmt.Errorf("failed to touch account %s: %w", fromID, err)
		}
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, update, fromID, balances[fromID].Sub(amount), now); err != nil {
		return fmt.Errorf("failed to debit account %s: %w", fromID, err)
	}
	if _, err := tx.ExecContext(ctx, update, toID, balances[toID].Add(amount), now); err != nil {
		return fmt.Errorf("failed to credit account %s: %w", toID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

// MarkInactiveSince flips ACTIVE accounts with no transaction since threshold
// to INACTIVE and returns how many rows changed.
func (r *AccountWriteRepository) MarkInactiveSince(ctx context.Context, threshold time.Time) (int64, error) {
	query := `
		UPDATE accounts
		SET status = $1, updated_at = $2
		WHERE status = $3 AND last_transaction_at < $4
	`
	result, err := r.db.ExecContext(ctx, query, models.AccountInactive, time.Now().UTC(), models.AccountActive, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale accounts inactive: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}
