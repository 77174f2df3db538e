// Package client talks to the account service, the owner of the ledger.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
)

// LedgerClient invokes the account service's transfer primitive and
// existence check over HTTP. Every call is bounded: the underlying client
// times out and failures surface as errs.ErrRemoteUnavailable rather than
// blocking the coordinator indefinitely.
type LedgerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLedgerClient(baseURL string) *LedgerClient {
	return &LedgerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// AccountExists reports whether the ledger knows the account id. A downstream
// failure is returned alongside false so the caller can decide its policy.
func (c *LedgerClient) AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/accounts/%s", c.baseURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build existence check: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("existence check for account %s: %w", accountID, errs.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("existence check for account %s returned %d: %w", accountID, resp.StatusCode, errs.ErrRemoteUnavailable)
	}
}

type transferRequest struct {
	FromAccountID uuid.UUID       `json:"fromAccountId"`
	ToAccountID   uuid.UUID       `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Transfer applies the monetary effect of a transfer on the ledger.
func (c *LedgerClient) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error {
	body, err := json.Marshal(transferRequest{FromAccountID: fromID, ToAccountID: toID, Amount: amount})
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	url := c.baseURL + "/accounts/transfer"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger transfer: %w", errs.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("ledger transfer: %w", errs.ErrNotFound)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("ledger transfer: %w", errs.ErrInsufficientFunds)
	default:
		return fmt.Errorf("ledger transfer returned %d: %w", resp.StatusCode, errs.ErrRemoteUnavailable)
	}
}
