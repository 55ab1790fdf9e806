// Package types holds the shared request/response and banking record
// structures exchanged between the HTTP layer, the agent core and the store.
package types

import (
	"fmt"
	"time"
)

// Flow labels produced by the intent classifier. The classifier must return
// exactly one of the six banking flows; HELP/GREETING/THANKS are resolved
// locally before the classifier runs.
const (
	FlowCardATMIssues     = "CARD_ATM_ISSUES"
	FlowAccountServicing  = "ACCOUNT_SERVICING"
	FlowAccountOpening    = "ACCOUNT_OPENING"
	FlowDigitalSupport    = "DIGITAL_SUPPORT"
	FlowTransfersPayments = "TRANSFERS_PAYMENTS"
	FlowAccountClosure    = "ACCOUNT_CLOSURE"

	FlowHelp     = "HELP"
	FlowGreeting = "GREETING"
	FlowThanks   = "THANKS"
)

// BankingFlows lists the six classifier labels in prompt order.
var BankingFlows = []string{
	FlowCardATMIssues,
	FlowAccountServicing,
	FlowAccountOpening,
	FlowDigitalSupport,
	FlowTransfersPayments,
	FlowAccountClosure,
}

// IsBankingFlow reports whether s is one of the six classifier labels.
func IsBankingFlow(s string) bool {
	for _, f := range BankingFlows {
		if s == f {
			return true
		}
	}
	return false
}

// FlowResult is the structured outcome of one processed message.
// RequiresVerification=true implies Response carries no account data and
// Action is empty.
type FlowResult struct {
	Response             string `json:"response"`
	Flow                 string `json:"flow"`
	RequiresVerification bool   `json:"requires_verification,omitempty"`
	Action               string `json:"action,omitempty"`
	Cards                []Card `json:"cards,omitempty"`
}

// ChatRequest is one turn of the chat session transport.
type ChatRequest struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id,omitempty"`
	PIN        string `json:"pin,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// ChatResponse is the reply for one chat turn.
type ChatResponse struct {
	Response             string `json:"response"`
	SessionID            string `json:"session_id"`
	RequiresVerification bool   `json:"requires_verification"`
	Flow                 string `json:"flow,omitempty"`
	Error                string `json:"error,omitempty"`
}

// Card is a payment card owned by the account store. The agent only ever
// moves a card from active to blocked; blocking is irreversible here.
type Card struct {
	CardID          string  `json:"card_id"`
	CardNumber      string  `json:"card_number"`
	CardType        string  `json:"card_type"`
	Status          string  `json:"status"`
	CreditLimit     float64 `json:"credit_limit,omitempty"`
	AvailableCredit float64 `json:"available_credit,omitempty"`
}

// Card statuses.
const (
	CardActive  = "active"
	CardBlocked = "blocked"
)

// Customer is a full account record as stored on disk.
type Customer struct {
	CustomerID     string  `json:"customer_id"`
	PIN            string  `json:"pin"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	AccountNumber  string  `json:"account_number"`
	AccountBalance float64 `json:"account_balance"`
	AccountType    string  `json:"account_type"`
	Cards          []Card  `json:"cards"`
}

// Balance is the subset of a customer record returned for balance queries.
type Balance struct {
	CustomerID    string  `json:"customer_id"`
	AccountNumber string  `json:"account_number"`
	Balance       float64 `json:"balance"`
	AccountType   string  `json:"account_type"`
}

// Transaction is one ledger entry, most recent first in store responses.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
}

// AuditEntry records one sensitive banking action.
type AuditEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Action     string         `json:"action"`
	CustomerID string         `json:"customer_id"`
	Details    map[string]any `json:"details,omitempty"`
}

// Audit actions appended by the store and its middleware.
const (
	AuditIdentityVerified   = "IDENTITY_VERIFIED"
	AuditVerificationFailed = "IDENTITY_VERIFICATION_FAILED"
	AuditBalanceCheck       = "BALANCE_CHECK"
	AuditTransactionsRead   = "TRANSACTIONS_RETRIEVED"
	AuditCardBlocked        = "CARD_BLOCKED"
	AuditAddressUpdated     = "ADDRESS_UPDATED"
)

// Event is an observability notification emitted after each processed
// message. Sinks are best-effort; emitting must never block a turn.
type Event struct {
	Name       string         `json:"name"`
	SessionID  string         `json:"session_id,omitempty"`
	CustomerID string         `json:"customer_id,omitempty"`
	Intent     string         `json:"intent,omitempty"`
	Flow       string         `json:"flow,omitempty"`
	Action     string         `json:"action,omitempty"`
	Timestamp  string         `json:"timestamp"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(name string) *Event {
	return &Event{Name: name, Timestamp: time.Now().Format(time.RFC3339)}
}

// MaskCardNumber keeps only the last four digits visible.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return fmt.Sprintf("****%s", number[len(number)-4:])
}
