package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		if !rl.Allow("balance:CUST001") {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if rl.Allow("balance:CUST001") {
		t.Error("6th call within the window should be rejected")
	}

	// Other keys are unaffected.
	if !rl.Allow("balance:CUST002") {
		t.Error("different customer must have its own window")
	}
	if !rl.Allow("transactions:CUST001") {
		t.Error("different operation must have its own window")
	}

	// Sliding window: after it passes, calls are allowed again.
	now = now.Add(61 * time.Second)
	if !rl.Allow("balance:CUST001") {
		t.Error("call after window expiry should be allowed")
	}
}

func TestLimitedStoreEnforcesLimit(t *testing.T) {
	fs := openTestStore(t)
	ls := WithMiddleware(fs, NewRateLimiter(2, time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := ls.GetAccountBalance(ctx, "CUST001"); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if _, err := ls.GetAccountBalance(ctx, "CUST001"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}

	// Transactions use a separate key and still work.
	if _, err := ls.GetRecentTransactions(ctx, "CUST001", 5); err != nil {
		t.Errorf("transactions: %v", err)
	}
}

func TestLimitedStorePassesVerifyThrough(t *testing.T) {
	fs := openTestStore(t)
	ls := WithMiddleware(fs, NewRateLimiter(1, time.Minute))
	ctx := context.Background()

	// Identity verification is not rate limited by the middleware.
	for i := 0; i < 3; i++ {
		if _, err := ls.VerifyIdentity(ctx, "CUST001", "1234"); err != nil {
			t.Fatalf("verify %d: %v", i+1, err)
		}
	}
}
