// Package store implements the account data-access contract consumed by the
// agent core: identity verification, balances, transactions, cards and the
// audit trail. The default implementation is backed by JSON files.
package store

import (
	"context"
	"errors"

	"github.com/Nimantha97/bank-voice-agent/types"
)

// Errors returned by store implementations.
var (
	// ErrNotFound is returned when a customer or card does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidCredentials is returned by VerifyIdentity on a bad
	// customer id / PIN pair. Callers must not reveal which field failed.
	ErrInvalidCredentials = errors.New("store: invalid credentials")

	// ErrRateLimited is returned by the rate-limit middleware.
	ErrRateLimited = errors.New("store: rate limit exceeded")
)

// Store is the account data-access contract. Implementations must keep
// BlockCard irreversible (active -> blocked only) and AppendAuditEntry
// non-raising.
type Store interface {
	// VerifyIdentity checks a customer id and PIN pair, returning the
	// customer record on success.
	VerifyIdentity(ctx context.Context, customerID, pin string) (*types.Customer, error)

	// GetAccountBalance returns account type, number and balance.
	GetAccountBalance(ctx context.Context, customerID string) (*types.Balance, error)

	// GetRecentTransactions returns up to count transactions, most
	// recent first.
	GetRecentTransactions(ctx context.Context, customerID string, count int) ([]types.Transaction, error)

	// GetCustomerCards returns all cards for a customer.
	GetCustomerCards(ctx context.Context, customerID string) ([]types.Card, error)

	// BlockCard blocks a card and returns the confirmation text.
	BlockCard(ctx context.Context, cardID, reason string) (string, error)

	// UpdateAddress replaces a customer's address and returns the
	// confirmation text.
	UpdateAddress(ctx context.Context, customerID, newAddress string) (string, error)

	// AppendAuditEntry records a sensitive action. Fire-and-forget.
	AppendAuditEntry(action, customerID string, details map[string]any)

	// AuditLog returns a snapshot of recorded audit entries.
	AuditLog() []types.AuditEntry
}
