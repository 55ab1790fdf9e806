package store

import (
	"context"
	"sync"
	"time"

	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// RateLimiter applies a sliding window per (operation, customer id) key.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing maxCalls per window per key.
func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		calls:    make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records one call against the key, reporting whether it fits the
// window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	kept := rl.calls[key][:0]
	for _, ts := range rl.calls[key] {
		if now.Sub(ts) < rl.window {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= rl.maxCalls {
		rl.calls[key] = kept
		return false
	}
	rl.calls[key] = append(kept, now)
	return true
}

// LimitedStore wraps a Store with rate limiting on read operations and
// confirmation logging around irreversible mutations. Failures in the
// wrapped concerns never change the underlying operation's semantics.
type LimitedStore struct {
	Store
	limiter *RateLimiter
	log     *logger.Logger
}

// WithMiddleware wraps s with the cross-cutting store concerns.
func WithMiddleware(s Store, limiter *RateLimiter) *LimitedStore {
	return &LimitedStore{
		Store:   s,
		limiter: limiter,
		log:     logger.Get().WithField("component", "store-middleware"),
	}
}

func (ls *LimitedStore) allow(op, customerID string) error {
	if ls.limiter == nil || customerID == "" {
		return nil
	}
	if !ls.limiter.Allow(op + ":" + customerID) {
		ls.log.WithFields(map[string]any{"op": op, "customer_id": customerID}).Warn("rate limit exceeded")
		return ErrRateLimited
	}
	return nil
}

// GetAccountBalance enforces the per-customer rate limit.
func (ls *LimitedStore) GetAccountBalance(ctx context.Context, customerID string) (*types.Balance, error) {
	if err := ls.allow("balance", customerID); err != nil {
		return nil, err
	}
	return ls.Store.GetAccountBalance(ctx, customerID)
}

// GetRecentTransactions enforces the per-customer rate limit.
func (ls *LimitedStore) GetRecentTransactions(ctx context.Context, customerID string, count int) ([]types.Transaction, error) {
	if err := ls.allow("transactions", customerID); err != nil {
		return nil, err
	}
	return ls.Store.GetRecentTransactions(ctx, customerID, count)
}

// GetCustomerCards enforces the per-customer rate limit.
func (ls *LimitedStore) GetCustomerCards(ctx context.Context, customerID string) ([]types.Card, error) {
	if err := ls.allow("cards", customerID); err != nil {
		return nil, err
	}
	return ls.Store.GetCustomerCards(ctx, customerID)
}

// BlockCard logs the irreversible action around the underlying call.
func (ls *LimitedStore) BlockCard(ctx context.Context, cardID, reason string) (string, error) {
	ls.log.WithFields(map[string]any{"card_id": cardID, "reason": reason}).Warn("irreversible action: block card")
	result, err := ls.Store.BlockCard(ctx, cardID, reason)
	if err != nil {
		ls.log.Error("block card failed", err)
		return result, err
	}
	ls.log.WithField("card_id", cardID).Info("block card completed")
	return result, nil
}
