package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/Nimantha97/bank-voice-agent/types"
)

func TestCardBlockWithExplicitID(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})

	result, err := a.ProcessMessage(context.Background(), "s1", "please block CARD001", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != "card_blocked" {
		t.Errorf("action = %q, want card_blocked", result.Action)
	}
	if fs.blockCalls != 1 || fs.blockedIDs[0] != "CARD001" {
		t.Errorf("BlockCard calls = %d ids = %v", fs.blockCalls, fs.blockedIDs)
	}
	if !strings.Contains(result.Response, "blocked successfully") {
		t.Errorf("unexpected response: %q", result.Response)
	}
}

func TestCardBlockIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})

	if _, err := a.ProcessMessage(context.Background(), "s1", "block CARD001", "CUST001", true); err != nil {
		t.Fatal(err)
	}
	result, err := a.ProcessMessage(context.Background(), "s1", "block CARD001", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}

	if fs.blockCalls != 1 {
		t.Errorf("BlockCard calls = %d, want 1 (second block must be a no-op)", fs.blockCalls)
	}
	if !strings.Contains(result.Response, "already blocked") {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if result.Action != "" {
		t.Errorf("already-blocked reply must carry no action, got %q", result.Action)
	}
}

func TestCardBlockReasonPrecedence(t *testing.T) {
	tests := []struct {
		message string
		reason  string
	}{
		{"I lost it, block CARD001", "Customer request - lost"},
		{"it was stolen, block CARD001", "Customer request - stolen"},
		{"lost or maybe stolen, block CARD001", "Customer request - lost"},
		{"block CARD001", "Customer request - security"},
	}
	for _, tt := range tests {
		fs := newFakeStore()
		a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})
		if _, err := a.ProcessMessage(context.Background(), "s1", tt.message, "CUST001", true); err != nil {
			t.Fatal(err)
		}
		if len(fs.blockReasons) != 1 || fs.blockReasons[0] != tt.reason {
			t.Errorf("message %q: reasons = %v, want [%s]", tt.message, fs.blockReasons, tt.reason)
		}
	}
}

func TestCardBlockWithoutIDListsCards(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})

	result, err := a.ProcessMessage(context.Background(), "s1", "I want to block my card", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if fs.blockCalls != 0 {
		t.Error("no card id given; BlockCard must not be called")
	}
	if result.Action != "list_cards" {
		t.Errorf("action = %q, want list_cards", result.Action)
	}
	if len(result.Cards) != 2 {
		t.Errorf("cards = %d, want 2", len(result.Cards))
	}
	if !strings.Contains(result.Response, "block CARD001") {
		t.Errorf("response should prompt with example card id: %q", result.Response)
	}
}

func TestLostCardWithoutBlockKeyword(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})

	result, err := a.ProcessMessage(context.Background(), "s1", "I lost my card yesterday", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if fs.blockCalls != 0 {
		t.Error("lost report without block keyword must not block")
	}
	if !strings.Contains(result.Response, "your card is lost") {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if result.Action != "list_cards" {
		t.Errorf("action = %q, want list_cards", result.Action)
	}
}

func TestCardGenericIssueListsCards(t *testing.T) {
	a := New(newFakeStore(), &fakeLLM{label: types.FlowCardATMIssues})

	result, err := a.ProcessMessage(context.Background(), "s1", "my card was declined at the ATM", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Response, "Which card is having the issue?") {
		t.Errorf("unexpected response: %q", result.Response)
	}
}

func TestNoCardsOnFile(t *testing.T) {
	fs := newFakeStore()
	fs.customers["CUST001"].Cards = nil
	a := New(fs, &fakeLLM{label: types.FlowCardATMIssues})

	result, err := a.ProcessMessage(context.Background(), "s1", "block my card", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Response != "No cards found for your account." {
		t.Errorf("unexpected response: %q", result.Response)
	}
}

func TestFormatCardList(t *testing.T) {
	got := formatCardList([]types.Card{
		{CardID: "CARD001", CardNumber: "4532123456781234", CardType: "Visa Debit", Status: types.CardActive},
	})
	want := "- Visa Debit (CARD001) ending in 1234 - Status: active"
	if got != want {
		t.Errorf("formatCardList = %q, want %q", got, want)
	}
}
