package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

type mockUserSource struct {
	profileFn func(userID uuid.UUID) (*models.UserProfileView, error)
}

func (m *mockUserSource) GetProfile(_ context.Context, userID uuid.UUID) (*models.UserProfileView, error) {
	return m.profileFn(userID)
}

type mockAccountSource struct {
	accountsFn func(userID uuid.UUID) ([]models.AccountView, error)
}

func (m *mockAccountSource) GetUserAccounts(_ context.Context, userID uuid.UUID) ([]models.AccountView, error) {
	return m.accountsFn(userID)
}

type mockTransactionSource struct {
	historyFn func(accountID uuid.UUID) ([]models.AccountTransactionView, error)
}

func (m *mockTransactionSource) GetAccountTransactions(_ context.Context, accountID uuid.UUID) ([]models.AccountTransactionView, error) {
	return m.historyFn(accountID)
}

func profileFor(userID uuid.UUID) *models.UserProfileView {
	return &models.UserProfileView{
		UserID:    userID,
		Username:  "tala",
		Email:     "tala@example.com",
		FirstName: "Tala",
		LastName:  "Hassan",
	}
}

func accountView(id uuid.UUID) models.AccountView {
	return models.AccountView{
		AccountID:     id,
		AccountNumber: "1234567890",
		AccountType:   models.AccountChecking,
		Balance:       decimal.RequireFromString("100.00"),
		Status:        models.AccountActive,
	}
}

func historyFor(accountID uuid.UUID) []models.AccountTransactionView {
	return []models.AccountTransactionView{{
		TransactionID:  uuid.New(),
		AccountID:      accountID,
		CounterpartyID: uuid.New(),
		Amount:         decimal.RequireFromString("-10.00"),
	}}
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("joins profile, accounts and histories", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()
		svc := NewDashboardService(
			&mockUserSource{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) { return profileFor(id), nil }},
			&mockAccountSource{accountsFn: func(uuid.UUID) ([]models.AccountView, error) {
				return []models.AccountView{accountView(first), accountView(second)}, nil
			}},
			&mockTransactionSource{historyFn: func(accountID uuid.UUID) ([]models.AccountTransactionView, error) {
				return historyFor(accountID), nil
			}},
		)

		view, err := svc.GetDashboard(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Username != "tala" || view.UserID != userID {
			t.Errorf("profile fields not carried through: %+v", view)
		}
		if len(view.Accounts) != 2 {
			t.Fatalf("got %d accounts, want 2", len(view.Accounts))
		}
		// Accounts keep the order the accounts source returned them in.
		if view.Accounts[0].AccountID != first || view.Accounts[1].AccountID != second {
			t.Errorf("account order not preserved: %s, %s", view.Accounts[0].AccountID, view.Accounts[1].AccountID)
		}
		for _, account := range view.Accounts {
			if len(account.Transactions) != 1 {
				t.Errorf("account %s has %d transactions, want 1", account.AccountID, len(account.Transactions))
			}
			if account.Transactions[0].AccountID != account.AccountID {
				t.Errorf("history for wrong account joined onto %s", account.AccountID)
			}
		}
	})

	t.Run("profile failure fails the whole dashboard", func(t *testing.T) {
		svc := NewDashboardService(
			&mockUserSource{profileFn: func(uuid.UUID) (*models.UserProfileView, error) {
				return nil, errs.ErrRemoteUnavailable
			}},
			&mockAccountSource{accountsFn: func(uuid.UUID) ([]models.AccountView, error) {
				return []models.AccountView{accountView(uuid.New())}, nil
			}},
			&mockTransactionSource{historyFn: func(accountID uuid.UUID) ([]models.AccountTransactionView, error) {
				return historyFor(accountID), nil
			}},
		)

		_, err := svc.GetDashboard(ctx, userID)
		if !errors.Is(err, errs.ErrDashboard) {
			t.Fatalf("expected ErrDashboard, got %v", err)
		}
	})

	t.Run("accounts failure degrades to an empty dashboard", func(t *testing.T) {
		svc := NewDashboardService(
			&mockUserSource{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) { return profileFor(id), nil }},
			&mockAccountSource{accountsFn: func(uuid.UUID) ([]models.AccountView, error) {
				return nil, errs.ErrRemoteUnavailable
			}},
			&mockTransactionSource{historyFn: func(uuid.UUID) ([]models.AccountTransactionView, error) {
				t.Error("history must not be fetched when there are no accounts")
				return nil, nil
			}},
		)

		view, err := svc.GetDashboard(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Username != "tala" {
			t.Errorf("profile fields missing from degraded view: %+v", view)
		}
		if len(view.Accounts) != 0 {
			t.Errorf("got %d accounts, want 0", len(view.Accounts))
		}
	})

	t.Run("one failing history degrades only its own account", func(t *testing.T) {
		healthy, broken := uuid.New(), uuid.New()
		svc := NewDashboardService(
			&mockUserSource{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) { return profileFor(id), nil }},
			&mockAccountSource{accountsFn: func(uuid.UUID) ([]models.AccountView, error) {
				return []models.AccountView{accountView(healthy), accountView(broken)}, nil
			}},
			&mockTransactionSource{historyFn: func(accountID uuid.UUID) ([]models.AccountTransactionView, error) {
				if accountID == broken {
					return nil, errs.ErrRemoteUnavailable
				}
				return historyFor(accountID), nil
			}},
		)

		view, err := svc.GetDashboard(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Accounts) != 2 {
			t.Fatalf("got %d accounts, want 2", len(view.Accounts))
		}
		if len(view.Accounts[0].Transactions) != 1 {
			t.Errorf("healthy account lost its history")
		}
		if got := view.Accounts[1].Transactions; got == nil || len(got) != 0 {
			t.Errorf("broken account should render an empty history, got %v", got)
		}
	})

	t.Run("a fresh account with no history renders empty", func(t *testing.T) {
		fresh := uuid.New()
		svc := NewDashboardService(
			&mockUserSource{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) { return profileFor(id), nil }},
			&mockAccountSource{accountsFn: func(uuid.UUID) ([]models.AccountView, error) {
				return []models.AccountView{accountView(fresh)}, nil
			}},
			&mockTransactionSource{historyFn: func(uuid.UUID) ([]models.AccountTransactionView, error) {
				// The transaction service reports an empty history as not found.
				return nil, fmt.Errorf("no transactions: %w", errs.ErrNotFound)
			}},
		)

		view, err := svc.GetDashboard(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Accounts) != 1 {
			t.Fatalf("got %d accounts, want 1", len(view.Accounts))
		}
		if got := view.Accounts[0].Transactions; got == nil || len(got) != 0 {
			t.Errorf("fresh account should render an empty history, got %v", got)
		}
	})
}
