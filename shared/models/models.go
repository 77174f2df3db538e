package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer record.
// INITIATED is the only non-terminal state; SUCCESS and FAILED are terminal
// and a record in either of them is never mutated again.
type TransferStatus string

const (
	TransferInitiated TransferStatus = "INITIATED"
	TransferSuccess   TransferStatus = "SUCCESS"
	TransferFailed    TransferStatus = "FAILED"
)

// IsTerminal reports whether no further status transitions are permitted.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferSuccess || s == TransferFailed
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountClosed   AccountStatus = "CLOSED"
)

type AccountType string

const (
	AccountSavings  AccountType = "SAVINGS"
	AccountChecking AccountType = "CHECKING"
	AccountCurrent  AccountType = "CURRENT"
)

// Transfer is the coordinator's write model. Amount never changes after
// creation; only Status and UpdatedAt move, exactly once, INITIATED -> terminal.
type Transfer struct {
	ID            uuid.UUID       `json:"transactionId"`
	FromAccountID uuid.UUID       `json:"fromAccountId"`
	ToAccountID   uuid.UUID       `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Status        TransferStatus  `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

// Account is the ledger's write model. Balance is fixed-point and never
// negative; LastTransactionAt feeds the idle-account sweep.
type Account struct {
	ID                uuid.UUID       `json:"accountId"`
	AccountNumber     string          `json:"accountNumber"`
	UserID            uuid.UUID       `json:"-"`
	AccountType       AccountType     `json:"accountType"`
	Balance           decimal.Decimal `json:"balance"`
	Status            AccountStatus   `json:"status"`
	CreatedAt         time.Time       `json:"createdTimestamp"`
	UpdatedAt         time.Time       `json:"updatedTimestamp"`
	LastTransactionAt time.Time       `json:"-"`
}

type User struct {
	ID           uuid.UUID `json:"userId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}
