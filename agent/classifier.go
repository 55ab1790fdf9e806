package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nimantha97/bank-voice-agent/llm"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// ClassificationError reports a classifier contract violation: the upstream
// call failed or returned a label outside the six-value flow set. The core
// never retries or guesses a default flow; callers surface this as a
// recoverable request failure.
type ClassificationError struct {
	Label string
	Err   error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intent classification failed: %v", e.Err)
	}
	return fmt.Sprintf("intent classification returned unknown label %q", e.Label)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

const intentSystemPrompt = `You are a banking intent classifier. Analyze the user's message and classify it into ONE of these flows:

1. CARD_ATM_ISSUES
   - Lost, stolen, or damaged cards
   - ATM problems (cash not dispensed, card stuck, ATM errors)
   - Declined payments or transaction failures
   - Card activation or replacement
   - Examples: "lost my card", "ATM didn't give cash", "card declined", "reporting ATM issue"

2. ACCOUNT_SERVICING
   - Balance inquiries
   - Transaction history or statements
   - Profile updates (address, phone, email)
   - Account information requests
   - Examples: "check balance", "recent transactions", "update address", "account details"

3. ACCOUNT_OPENING
   - New account creation
   - Document requirements
   - Eligibility questions
   - Appointment scheduling
   - Examples: "open new account", "what documents needed", "am I eligible"

4. DIGITAL_SUPPORT
   - Login problems
   - OTP/verification code issues
   - App crashes or errors
   - Device registration
   - Password reset
   - Examples: "can't login", "OTP not received", "app not working", "forgot password"

5. TRANSFERS_PAYMENTS
   - Money transfers (domestic/international)
   - Bill payments
   - Beneficiary management
   - Failed or pending transfers
   - Examples: "transfer money", "pay bill", "add beneficiary", "transfer failed"

6. ACCOUNT_CLOSURE
   - Close account requests
   - Account termination
   - Reason for leaving
   - Examples: "close my account", "cancel account", "terminate account"

Respond with ONLY the flow name (e.g., "CARD_ATM_ISSUES"). No explanation.`

// Classifier wraps a single LLM call with the fixed intent prompt and a
// closed label set.
type Classifier struct {
	client llm.Client
}

// NewClassifier creates a classifier over the given chat client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify resolves a free-text message to exactly one of the six banking
// flows. Any deviation from the label set is a ClassificationError.
func (c *Classifier) Classify(ctx context.Context, message string) (string, error) {
	if c.client == nil {
		return "", &ClassificationError{Err: llm.ErrDisabled}
	}
	out, err := c.client.Chat(ctx, intentSystemPrompt, message)
	if err != nil {
		return "", &ClassificationError{Err: err}
	}
	label := strings.TrimSpace(out)
	if !types.IsBankingFlow(label) {
		return "", &ClassificationError{Label: label}
	}
	return label, nil
}
