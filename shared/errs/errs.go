// Package errs defines the sentinel errors shared across services.
// Handlers match them with errors.Is and map them to HTTP statuses; services
// wrap them with fmt.Errorf("...: %w", ...) to add call-site detail.
package errs

import "errors"

var (
	// ErrInvalidArgument rejects malformed input, e.g. a non-positive amount.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound covers unknown account, transfer, or user ids — and, by
	// deliberate contract, an account transaction history with zero records.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransfer rejects an initiation whose source or destination
	// account is unknown to the ledger.
	ErrInvalidTransfer = errors.New("invalid transfer")

	// ErrInvalidState rejects executing a transfer that is not INITIATED.
	// This is the idempotence boundary: a terminal record is never re-applied.
	ErrInvalidState = errors.New("invalid transfer state")

	// ErrInsufficientFunds means the ledger pre-check failed; both balances
	// are left untouched on this path.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRemoteUnavailable means a downstream call failed or timed out.
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrDashboard means the dashboard could not be assembled: the profile
	// fetch failed, or aggregation was otherwise unrecoverable.
	ErrDashboard = errors.New("dashboard aggregation failed")

	// ErrConflict covers uniqueness violations, e.g. duplicate username.
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials rejects a login with a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
