package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nimantha97/bank-voice-agent/types"
)

var blockKeywords = []string{"block", "freeze"}

// handleCardATMIssues runs the card/ATM decision tree on a verified
// session. The ordering is a contract: empty list, explicit block with a
// card id, block without an id, lost/stolen without a block keyword, then
// the generic prompt. An explicit block request wins even when lost/stolen
// words are also present.
func (a *Agent) handleCardATMIssues(ctx context.Context, message, customerID string) *types.FlowResult {
	normalized := strings.ToLower(message)

	// Fetched fresh on every turn, never cached.
	cards, err := a.store.GetCustomerCards(ctx, customerID)
	if err != nil {
		a.log.Error("card lookup failed", err)
		return &types.FlowResult{
			Response: "I couldn't look up your cards right now. Please try again shortly.",
			Flow:     types.FlowCardATMIssues,
		}
	}
	if len(cards) == 0 {
		return &types.FlowResult{
			Response: "No cards found for your account.",
			Flow:     types.FlowCardATMIssues,
		}
	}

	cardList := formatCardList(cards)

	if containsAny(normalized, blockKeywords...) {
		for _, card := range cards {
			if !strings.Contains(normalized, strings.ToLower(card.CardID)) {
				continue
			}
			if card.Status == types.CardBlocked {
				// Idempotent: no mutation, no duplicate audit entry.
				return &types.FlowResult{
					Response: fmt.Sprintf("Card %s is already blocked.", card.CardNumber),
					Flow:     types.FlowCardATMIssues,
				}
			}
			reason := "Customer request - " + blockReason(normalized)
			confirmation, err := a.store.BlockCard(ctx, card.CardID, reason)
			if err != nil {
				a.log.Error("block card failed", err)
				return &types.FlowResult{
					Response: "I couldn't block that card right now. Please try again shortly.",
					Flow:     types.FlowCardATMIssues,
				}
			}
			return &types.FlowResult{
				Response: confirmation,
				Flow:     types.FlowCardATMIssues,
				Action:   "card_blocked",
			}
		}

		return &types.FlowResult{
			Response: fmt.Sprintf("I can help block your card. Here are your cards:\n%s\n\nPlease specify which card you'd like to block by saying the card ID (e.g., 'block CARD001').", cardList),
			Flow:     types.FlowCardATMIssues,
			Action:   "list_cards",
			Cards:    cards,
		}
	}

	if containsAny(normalized, "lost", "stolen") {
		condition := "stolen"
		if strings.Contains(normalized, "lost") {
			condition = "lost"
		}
		return &types.FlowResult{
			Response: fmt.Sprintf("I understand your card is %s. Here are your cards:\n%s\n\nWhich card would you like to block? Please provide the card ID (e.g., 'block CARD001').", condition, cardList),
			Flow:     types.FlowCardATMIssues,
			Action:   "list_cards",
			Cards:    cards,
		}
	}

	return &types.FlowResult{
		Response: fmt.Sprintf("I can help with that. Here are your cards:\n%s\n\nWhich card is having the issue?", cardList),
		Flow:     types.FlowCardATMIssues,
		Action:   "list_cards",
		Cards:    cards,
	}
}

// blockReason derives the block reason by keyword precedence:
// lost > stolen > generic security.
func blockReason(normalized string) string {
	switch {
	case strings.Contains(normalized, "lost"):
		return "lost"
	case strings.Contains(normalized, "stolen"):
		return "stolen"
	default:
		return "security"
	}
}

func formatCardList(cards []types.Card) string {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		last4 := c.CardNumber
		if len(last4) > 4 {
			last4 = last4[len(last4)-4:]
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) ending in %s - Status: %s", c.CardType, c.CardID, last4, c.Status))
	}
	return strings.Join(lines, "\n")
}
