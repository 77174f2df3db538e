// Package client holds the BFF's HTTP clients for the three data sources the
// dashboard joins: user profiles, accounts, and transaction history.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// requestTimeout bounds every downstream call. A slow source fails the call
// with errs.ErrRemoteUnavailable instead of stalling the dashboard forever;
// the aggregator's per-call policy decides what that failure means.
const requestTimeout = 5 * time.Second

func get(ctx context.Context, httpClient *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, errs.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("GET %s: failed to decode response: %w", url, err)
		}
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", url, errs.ErrNotFound)
	default:
		return fmt.Errorf("GET %s returned %d: %w", url, resp.StatusCode, errs.ErrRemoteUnavailable)
	}
}

// UserClient fetches profiles from the user service.
type UserClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{baseURL: baseURL, httpClient: &http.Client{Timeout: requestTimeout}}
}

func (c *UserClient) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfileView, error) {
	var profile models.UserProfileView
	url := fmt.Sprintf("%s/users/%s/profile", c.baseURL, userID)
	if err := get(ctx, c.httpClient, url, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AccountClient fetches account listings from the account service.
type AccountClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAccountClient(baseURL string) *AccountClient {
	return &AccountClient{baseURL: baseURL, httpClient: &http.Client{Timeout: requestTimeout}}
}

func (c *AccountClient) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.AccountView, error) {
	var accounts []models.AccountView
	url := fmt.Sprintf("%s/users/%s/accounts", c.baseURL, userID)
	if err := get(ctx, c.httpClient, url, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// TransactionClient fetches per-account history from the transaction service.
type TransactionClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTransactionClient(baseURL string) *TransactionClient {
	return &TransactionClient{baseURL: baseURL, httpClient: &http.Client{Timeout: requestTimeout}}
}

func (c *TransactionClient) GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]models.AccountTransactionView, error) {
	var views []models.AccountTransactionView
	url := fmt.Sprintf("%s/accounts/%s/transactions", c.baseURL, accountID)
	if err := get(ctx, c.httpClient, url, &views); err != nil {
		return nil, err
	}
	return views, nil
}
