// Package service drives the two-step transfer saga: an INITIATED record is
// created first, and a later execute call applies the monetary effect on the
// remote ledger before moving the record to its terminal status.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// Ledger is the account service's remote contract.
type Ledger interface {
	AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error)
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error
}

// Store persists transfer records.
type Store interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, transferID uuid.UUID) (*models.Transfer, error)
	UpdateStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transfer, error)
}

// TransferService coordinates transfer records with the ledger. There is no
// distributed transaction between the two: the ledger effect and the record's
// terminal status are separate writes, and a crash between them leaves the
// ledger mutated with the record still INITIATED. The guarded status update
// keeps that window from ever double-applying money.
type TransferService struct {
	store    Store
	ledger   Ledger
	inFlight inFlightTransfers
}

func NewTransferService(store Store, ledger Ledger) *TransferService {
	return &TransferService{store: store, ledger: ledger}
}

// Initiate validates both sides against the ledger and durably records the
// transfer as INITIATED. No money moves here. A source equal to the
// destination is accepted; rejecting it is a policy call this service does
// not make.
func (s *TransferService) Initiate(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) (*models.TransferReceipt, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive: %w", errs.ErrInvalidArgument)
	}

	// One round trip per side. A ledger that cannot confirm the account is
	// treated the same as one that denies it.
	for _, accountID := range []uuid.UUID{fromID, toID} {
		exists, err := s.ledger.AccountExists(ctx, accountID)
		if err != nil || !exists {
			return nil, fmt.Errorf("account %s is unknown to the ledger: %w", accountID, errs.ErrInvalidTransfer)
		}
	}

	now := time.Now().UTC()
	transfer := &models.Transfer{
		ID:            uuid.New(),
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   description,
		Status:        models.TransferInitiated,
		Timestamp:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, transfer); err != nil {
		return nil, err
	}

	return &models.TransferReceipt{
		TransactionID: transfer.ID,
		Status:        transfer.Status,
		Timestamp:     transfer.Timestamp,
	}, nil
}

// Execute applies an INITIATED transfer. A record that is already terminal
// is never re-applied: that is the idempotence boundary, and it fails with
// ErrInvalidState without touching any balance. Any failure of the remote
// ledger call — insufficient funds, unknown account, network — collapses
// into the FAILED status; the record does not keep the cause.
func (s *TransferService) Execute(ctx context.Context, transferID uuid.UUID) (*models.TransferReceipt, error) {
	unlock := s.inFlight.lock(transferID)
	defer unlock()

	transfer, err := s.store.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != models.TransferInitiated {
		return nil, fmt.Errorf("transfer %s is %s: %w", transferID, transfer.Status, errs.ErrInvalidState)
	}

	status := models.TransferSuccess
	if err := s.ledger.Transfer(ctx, transfer.FromAccountID, transfer.ToAccountID, transfer.Amount); err != nil {
		log.Printf("Ledger transfer for %s failed: %v", transferID, err)
		status = models.TransferFailed
	}

	if err := s.store.UpdateStatus(ctx, transferID, status); err != nil {
		return nil, err
	}

	return &models.TransferReceipt{
		TransactionID: transfer.ID,
		Status:        status,
		Timestamp:     transfer.Timestamp,
	}, nil
}

// GetAccountTransactions returns the account's history, newest first, from
// that account's point of view: debits carry a negative amount, credits a
// positive one, and the counterparty is the other side of each record. An
// account with no records at all is reported as not found, not as an empty
// history.
func (s *TransferService) GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]models.AccountTransactionView, error) {
	transfers, err := s.store.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(transfers) == 0 {
		return nil, fmt.Errorf("no transactions for account %s: %w", accountID, errs.ErrNotFound)
	}

	views := make([]models.AccountTransactionView, 0, len(transfers))
	for _, transfer := range transfers {
		view := models.AccountTransactionView{
			TransactionID: transfer.ID,
			AccountID:     accountID,
			Amount:        transfer.Amount,
			Description:   transfer.Description,
			Timestamp:     transfer.Timestamp,
		}
		if transfer.FromAccountID == accountID {
			view.Amount = transfer.Amount.Neg() // Debit
			view.CounterpartyID = transfer.ToAccountID
		} else {
			view.CounterpartyID = transfer.FromAccountID
		}
		views = append(views, view)
	}
	return views, nil
}

// inFlightTransfers serialises execute calls per transfer id, so two
// concurrent executes of the same record cannot both observe INITIATED and
// move money twice. The zero value is ready to use.
type inFlightTransfers struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (t *inFlightTransfers) lock(id uuid.UUID) func() {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}
