// Package service assembles the dashboard read model: a fan-out to three
// independent sources joined into one response under an asymmetric failure
// policy.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// UserSource, AccountSource and TransactionSource are the three downstream
// contracts the dashboard joins.
type UserSource interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfileView, error)
}

type AccountSource interface {
	GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.AccountView, error)
}

type TransactionSource interface {
	GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]models.AccountTransactionView, error)
}

// DashboardService builds the request-scoped dashboard view. The failure
// policy is asymmetric on purpose:
//
//   - profile fetch failure is fatal — without identity fields there is no
//     valid response to assemble;
//   - accounts fetch failure degrades to "no accounts";
//   - a history fetch failure degrades to an empty list for that account
//     only, leaving sibling accounts untouched.
//
// All history fetches run concurrently and the join waits for every one of
// them; a slow source delays the response but never cancels its siblings.
type DashboardService struct {
	users        UserSource
	accounts     AccountSource
	transactions TransactionSource
}

func NewDashboardService(users UserSource, accounts AccountSource, transactions TransactionSource) *DashboardService {
	return &DashboardService{users: users, accounts: accounts, transactions: transactions}
}

func (s *DashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardView, error) {
	var (
		wg         sync.WaitGroup
		profile    *models.UserProfileView
		profileErr error
		accounts   []models.AccountView
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = s.users.GetProfile(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		var err error
		accounts, err = s.accounts.GetUserAccounts(ctx, userID)
		if err != nil {
			// Degraded, not an error: render the dashboard with no accounts.
			log.Printf("Accounts fetch for user %s failed, rendering empty: %v", userID, err)
			accounts = nil
		}
	}()
	wg.Wait()

	if profileErr != nil {
		return nil, fmt.Errorf("profile fetch for user %s failed: %w", userID, errs.ErrDashboard)
	}

	// Fan out one history fetch per account and wait for all of them.
	// Results land by index, so accounts keep the order the accounts fetch
	// returned them in.
	joined := make([]models.AccountWithTransactions, len(accounts))
	wg.Add(len(accounts))
	for i, account := range accounts {
		go func(i int, account models.AccountView) {
			defer wg.Done()
			transactions, err := s.transactions.GetAccountTransactions(ctx, account.AccountID)
			if err != nil {
				log.Printf("History fetch for account %s failed, rendering empty: %v", account.AccountID, err)
				transactions = []models.AccountTransactionView{}
			}
			joined[i] = models.AccountWithTransactions{
				AccountView:  account,
				Transactions: transactions,
			}
		}(i, account)
	}
	wg.Wait()

	return &models.DashboardView{
		UserID:    profile.UserID,
		Username:  profile.Username,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Accounts:  joined,
	}, nil
}
