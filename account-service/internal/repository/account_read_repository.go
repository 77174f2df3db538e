package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	goredis "github.com/redis/go-redis/v9"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
	sharedredis "github.com/farahsharshar/v-banking-system/shared/redis"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account view.
// Unlike models.AccountView it serialises UserID, so ownership checks can be
// answered from the cache.
type accountCacheEntry struct {
	AccountID     uuid.UUID            `json:"accountId"`
	AccountNumber string               `json:"accountNumber"`
	UserID        uuid.UUID            `json:"userId"`
	AccountType   models.AccountType   `json:"accountType"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        models.AccountStatus `json:"status"`
}

// AccountReadRepository serves account views: Redis first, PostgreSQL as the
// fallback, warming the cache on every cold read. Transfers invalidate the
// touched entries so a dashboard read never sees a pre-transfer balance for
// longer than the entry TTL.
type AccountReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[accountCacheEntry]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[accountCacheEntry](redisClient, 5*time.Minute),
	}
}

func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		AccountID:     e.AccountID,
		AccountNumber: e.AccountNumber,
		UserID:        e.UserID,
		AccountType:   e.AccountType,
		Balance:       e.Balance,
		Status:        e.Status,
	}
}

func viewToCacheEntry(v *models.AccountView) *accountCacheEntry {
	return &accountCacheEntry{
		AccountID:     v.AccountID,
		AccountNumber: v.AccountNumber,
		UserID:        v.UserID,
		AccountType:   v.AccountType,
		Balance:       v.Balance,
		Status:        v.Status,
	}
}

// GetViewByID returns an AccountView, trying Redis then PostgreSQL.
func (r *AccountReadRepository) GetViewByID(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + accountID.String()

	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return cacheEntryToView(entry), nil
	}

	query := `
		SELECT id, account_number, user_id, account_type, balance, status
		FROM accounts
		WHERE id = $1
	`
	var view models.AccountView
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&view.AccountID, &view.AccountNumber, &view.UserID,
		&view.AccountType, &view.Balance, &view.Status,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", accountID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account view: %w", err)
	}

	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	r.cache.Set(ctx, accountViewKeyPrefix+view.AccountID.String(), viewToCacheEntry(view))
}

// InvalidateAccountView drops the cached entry after a balance mutation.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, accountID uuid.UUID) {
	r.cache.Delete(ctx, accountViewKeyPrefix+accountID.String())
}
