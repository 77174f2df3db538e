package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// TransferRepository persists transfer records. Records are append-and-
// advance only: Create writes the INITIATED row, UpdateStatus moves it to a
// terminal status exactly once, and nothing ever deletes a row — the table
// is the audit trail.
type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	query := `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, description, status, timestamp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		transfer.ID, transfer.FromAccountID, transfer.ToAccountID,
		transfer.Amount, nullString(transfer.Description), transfer.Status,
		transfer.Timestamp, transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer record: %w", err)
	}
	return nil
}

func (r *TransferRepository) GetByID(ctx context.Context, transferID uuid.UUID) (*models.Transfer, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, COALESCE(description, ''), status, timestamp, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`
	var transfer models.Transfer
	err := r.db.QueryRowContext(ctx, query, transferID).Scan(
		&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID,
		&transfer.Amount, &transfer.Description, &transfer.Status,
		&transfer.Timestamp, &transfer.CreatedAt, &transfer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transfer %s: %w", transferID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer record: %w", err)
	}
	return &transfer, nil
}

// UpdateStatus advances an INITIATED record to a terminal status. The guard
// in the WHERE clause makes the transition single-shot: once a record is
// terminal no further update can touch it, so a replayed execute can never
// overwrite the outcome.
func (r *TransferRepository) UpdateStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) error {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, transferID, status, time.Now().UTC(), models.TransferInitiated)
	if err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transfer %s is not INITIATED: %w", transferID, errs.ErrInvalidState)
	}
	return nil
}

// ListByAccount returns every record where the account is source or
// destination, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, COALESCE(description, ''), status, timestamp, created_at, updated_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var transfer models.Transfer
		if err := rows.Scan(
			&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID,
			&transfer.Amount, &transfer.Description, &transfer.Status,
			&transfer.Timestamp, &transfer.CreatedAt, &transfer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
