package agent

import (
	"strings"

	"github.com/Nimantha97/bank-voice-agent/types"
)

// Conversational short-circuits: help phrases are checked before greetings,
// greetings before thanks, and the first match wins. A message matching
// both a help phrase and a greeting token resolves as help.

var helpPhrases = []string{
	"what can you do", "help me", "show features", "capabilities",
	"what do you do", "how can you help", "what are you", "who are you",
}

var greetings = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
}

var thanksPhrases = []string{
	"thank you", "thanks", "thank you very much", "thanks a lot",
}

const helpText = `I'm your Bank ABC AI Assistant! Here's what I can help you with:

**Account Services**
- Check account balance
- View recent transactions
- Update your address or profile

**Card & ATM Issues**
- Report lost or stolen cards
- Block cards immediately
- Report ATM problems
- Handle declined payments

**Digital Banking Support**
- Login issues
- OTP/verification problems
- App crashes or errors

**Transfers & Payments**
- Money transfers
- Bill payments
- Beneficiary management

**Account Opening**
- New account inquiries
- Document requirements

**Account Closure**
- Close account requests

Just tell me what you need! For security, I'll verify your identity before accessing account information.

**Examples:**
- "What's my balance?"
- "I lost my credit card"
- "Show my recent transactions"`

const greetingText = "Hello! Welcome to Bank ABC. I'm your AI banking assistant. How can I help you today?\n\n" +
	"You can ask about your balance, report card issues, check transactions, or say 'help' to see all features."

const thanksText = "You're welcome! Is there anything else I can help you with today?"

// MatchConversational resolves help/greeting/thanks turns without invoking
// the classifier. Returns nil when the message needs classification.
func MatchConversational(message string) *types.FlowResult {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if normalized == "help" || containsAny(normalized, helpPhrases...) {
		return &types.FlowResult{
			Response: helpText,
			Flow:     types.FlowHelp,
			Action:   "help_displayed",
		}
	}

	// Exact or token-prefixed greetings only; "historical" must not match.
	for _, g := range greetings {
		if normalized == g || strings.HasPrefix(normalized, g+" ") || strings.HasPrefix(normalized, g+"!") {
			return &types.FlowResult{Response: greetingText, Flow: types.FlowGreeting}
		}
	}

	for _, t := range thanksPhrases {
		if normalized == t || strings.HasPrefix(normalized, t+" ") {
			return &types.FlowResult{Response: thanksText, Flow: types.FlowThanks}
		}
	}

	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
