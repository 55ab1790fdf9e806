package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nimantha97/bank-voice-agent/types"
)

// Keyword buckets for account servicing, evaluated in fixed order:
// balance, transactions, address, then the balance fallback.
var (
	balanceKeywords     = []string{"balance", "how much", "money", "account"}
	transactionKeywords = []string{"transaction", "statement", "history", "recent"}
	addressKeywords     = []string{"address", "update", "change"}
)

const recentTransactionCount = 5

// handleAccountServicing dispatches a verified servicing request to the
// first matching keyword bucket.
func (a *Agent) handleAccountServicing(ctx context.Context, message, customerID string) *types.FlowResult {
	normalized := strings.ToLower(message)

	if containsAny(normalized, balanceKeywords...) {
		return a.balanceResult(ctx, customerID, "")
	}

	if containsAny(normalized, transactionKeywords...) {
		txns, err := a.store.GetRecentTransactions(ctx, customerID, recentTransactionCount)
		if err != nil {
			a.log.Error("transaction lookup failed", err)
			return &types.FlowResult{
				Response: "I couldn't fetch your transactions right now. Please try again shortly.",
				Flow:     types.FlowAccountServicing,
			}
		}
		lines := make([]string, 0, len(txns))
		for _, t := range txns {
			lines = append(lines, fmt.Sprintf("- %s: %s ($%v)", t.Date, t.Description, t.Amount))
		}
		return &types.FlowResult{
			Response: "Here are your recent transactions:\n" + strings.Join(lines, "\n"),
			Flow:     types.FlowAccountServicing,
			Action:   "transaction_history",
		}
	}

	if containsAny(normalized, addressKeywords...) {
		// Prompt only; the actual update happens on a follow-up turn.
		return &types.FlowResult{
			Response: "I can help update your address. Please provide your new address.",
			Flow:     types.FlowAccountServicing,
			Action:   "address_update_prompt",
		}
	}

	// Fallback: an unrecognized servicing request still gets useful
	// account context instead of a dead end.
	return a.balanceResult(ctx, customerID, ". I can also help with transaction history or profile updates")
}

func (a *Agent) balanceResult(ctx context.Context, customerID, suffix string) *types.FlowResult {
	balance, err := a.store.GetAccountBalance(ctx, customerID)
	if err != nil {
		a.log.Error("balance lookup failed", err)
		return &types.FlowResult{
			Response: "Customer not found",
			Flow:     types.FlowAccountServicing,
		}
	}
	return &types.FlowResult{
		Response: fmt.Sprintf("Your %s account (#%s) has a balance of $%s%s",
			balance.AccountType, balance.AccountNumber, formatAmount(balance.Balance), suffix),
		Flow:   types.FlowAccountServicing,
		Action: "balance_check",
	}
}

// formatAmount renders a dollar amount with thousands separators and two
// decimal places.
func formatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out) + fracPart
	}
	return string(out) + fracPart
}
