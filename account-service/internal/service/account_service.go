// Package service implements the ledger: authoritative account balances and
// statuses, the atomic transfer primitive, and the idle-account sweep.
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
	"github.com/farahsharshar/v-banking-system/shared/utils"
)

// Store is the persistence contract the ledger runs on.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	Exists(ctx context.Context, accountID uuid.UUID) (bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error
	MarkInactiveSince(ctx context.Context, threshold time.Time) (int64, error)
}

// ViewCache serves the Redis-first account read model and keeps it in step
// with balance mutations. Cache writes must be non-fatal: a cache problem
// never fails the caller.
type ViewCache interface {
	GetViewByID(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error)
	CacheAccountView(ctx context.Context, view *models.AccountView)
	InvalidateAccountView(ctx context.Context, accountID uuid.UUID)
}

// staleAfter is how long an ACTIVE account may sit without a transaction
// before the sweep marks it INACTIVE.
const staleAfter = 24 * time.Hour

// AccountService owns the ledger invariants: balance never negative, a debit
// only applied when the locked balance covers it, and the two balance
// mutations of a transfer conserving their sum.
type AccountService struct {
	store Store
	views ViewCache
	locks accountLocks
}

func NewAccountService(store Store, views ViewCache) *AccountService {
	return &AccountService{store: store, views: views}
}

func (s *AccountService) OpenAccount(ctx context.Context, userID uuid.UUID, accountType models.AccountType, initialBalance decimal.Decimal) (*models.Account, error) {
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("initial balance must not be negative: %w", errs.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	account := &models.Account{
		ID:                uuid.New(),
		AccountNumber:     utils.GenerateAccountNumber(),
		UserID:            userID,
		AccountType:       accountType,
		Balance:           initialBalance,
		Status:            models.AccountActive,
		CreatedAt:         now,
		UpdatedAt:         now,
		LastTransactionAt: now,
	}
	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}
	s.views.CacheAccountView(ctx, accountToView(account))
	return account, nil
}

// GetAccount serves the account read model, Redis first with a PostgreSQL
// fallback.
func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error) {
	return s.views.GetViewByID(ctx, accountID)
}

// AccountExists answers the coordinator's pre-validation query.
func (s *AccountService) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, accountID)
}

// ListUserAccounts returns the user's accounts. A user with no accounts is
// reported as not found rather than as an empty list.
func (s *AccountService) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.store.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts for user %s: %w", userID, errs.ErrNotFound)
	}
	return accounts, nil
}

// TransferFunds applies the monetary effect of a transfer. Mutations are
// serialised per account: both account keys are locked in a stable order
// before the check-then-act sequence runs, so concurrent transfers touching
// the same source can never both pass the funds check on a stale balance.
func (s *AccountService) TransferFunds(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("transfer amount must be positive: %w", errs.ErrInvalidArgument)
	}

	unlock := s.locks.lockPair(fromID, toID)
	defer unlock()

	if err := s.store.Transfer(ctx, fromID, toID, amount); err != nil {
		return err
	}

	s.views.InvalidateAccountView(ctx, fromID)
	if toID != fromID {
		s.views.InvalidateAccountView(ctx, toID)
	}
	return nil
}

// SweepInactiveAccounts runs one pass of the idle-account sweep.
func (s *AccountService) SweepInactiveAccounts(ctx context.Context) error {
	n, err := s.store.MarkInactiveSince(ctx, time.Now().UTC().Add(-staleAfter))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Inactivated %d stale accounts", n)
	}
	return nil
}

// StartInactivitySweeper blocks, sweeping on every tick until ctx is cancelled.
func (s *AccountService) StartInactivitySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepInactiveAccounts(ctx); err != nil {
				log.Printf("Inactivity sweep failed: %v", err)
			}
		}
	}
}

func accountToView(a *models.Account) *models.AccountView {
	return &models.AccountView{
		AccountID:     a.ID,
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		Status:        a.Status,
	}
}

// accountLocks hands out one mutex per account id. The zero value is ready
// to use.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (l *accountLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lockPair locks both account mutexes in a stable order so two transfers
// over the same pair cannot deadlock, and returns the matching unlock.
func (l *accountLocks) lockPair(a, b uuid.UUID) func() {
	if a == b {
		m := l.get(a)
		m.Lock()
		return m.Unlock
	}
	first, second := a, b
	if second.String() < first.String() {
		first, second = second, first
	}
	m1, m2 := l.get(first), l.get(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}
