package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
)

func TestAccountExists(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		status     int
		wantExists bool
		wantErr    error
	}{
		{name: "200 means known", status: http.StatusOK, wantExists: true},
		{name: "404 means unknown", status: http.StatusNotFound, wantExists: false},
		{name: "500 means unavailable", status: http.StatusInternalServerError, wantErr: errs.ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/accounts/"+accountID.String() {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewLedgerClient(srv.URL)
			exists, err := c.AccountExists(context.Background(), accountID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tt.wantExists {
				t.Errorf("exists = %v, want %v", exists, tt.wantExists)
			}
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		c := NewLedgerClient("http://127.0.0.1:1")
		_, err := c.AccountExists(context.Background(), accountID)
		if !errors.Is(err, errs.ErrRemoteUnavailable) {
			t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
		}
	})
}

func TestLedgerTransfer(t *testing.T) {
	fromID, toID := uuid.New(), uuid.New()
	amount := decimal.RequireFromString("25.00")

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "200 applies", status: http.StatusOK},
		{name: "404 is not found", status: http.StatusNotFound, wantErr: errs.ErrNotFound},
		{name: "422 is insufficient funds", status: http.StatusUnprocessableEntity, wantErr: errs.ErrInsufficientFunds},
		{name: "503 is unavailable", status: http.StatusServiceUnavailable, wantErr: errs.ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/accounts/transfer" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body transferRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("invalid request body: %v", err)
				} else if body.FromAccountID != fromID || body.ToAccountID != toID || !body.Amount.Equal(amount) {
					t.Errorf("unexpected payload: %+v", body)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewLedgerClient(srv.URL)
			err := c.Transfer(context.Background(), fromID, toID, amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		c := NewLedgerClient("http://127.0.0.1:1")
		err := c.Transfer(context.Background(), fromID, toID, amount)
		if !errors.Is(err, errs.ErrRemoteUnavailable) {
			t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
		}
	})
}
