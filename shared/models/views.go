package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferReceipt is the response shape for initiate/execute: the record id,
// its status after the call, and the record timestamp.
type TransferReceipt struct {
	TransactionID uuid.UUID      `json:"transactionId"`
	Status        TransferStatus `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
}

// AccountTransactionView is a transfer record projected onto one account's
// point of view: the amount is negative when the account was the source
// (debit) and positive when it was the destination (credit), and
// CounterpartyID is whichever side is not the queried account.
type AccountTransactionView struct {
	TransactionID  uuid.UUID       `json:"transactionId"`
	AccountID      uuid.UUID       `json:"accountId"`
	CounterpartyID uuid.UUID       `json:"counterpartyId"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// UserProfileView is the read-optimised projection of a user, as served by
// the user-service profile endpoint and consumed by the BFF.
type UserProfileView struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// AccountView is the read-optimised projection of an account. UserID is
// carried for ownership checks but never serialised to the API response.
type AccountView struct {
	AccountID     uuid.UUID       `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	UserID        uuid.UUID       `json:"-"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
}

// AccountWithTransactions pairs an account view with its recent history for
// the dashboard. Transactions keep the downstream ordering untouched.
type AccountWithTransactions struct {
	AccountView
	Transactions []AccountTransactionView `json:"transactions"`
}

// DashboardView is the ephemeral, request-scoped dashboard read model.
// It is never persisted; every call reassembles it from the three sources.
type DashboardView struct {
	UserID    uuid.UUID                 `json:"userId"`
	Username  string                    `json:"username"`
	Email     string                    `json:"email"`
	FirstName string                    `json:"firstName"`
	LastName  string                    `json:"lastName"`
	Accounts  []AccountWithTransactions `json:"accounts"`
}
