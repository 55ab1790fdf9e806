package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/Nimantha97/bank-voice-agent/types"
)

func TestBalanceInquiry(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowAccountServicing})

	result, err := a.ProcessMessage(context.Background(), "s1", "what is my balance?", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != "balance_check" {
		t.Errorf("action = %q, want balance_check", result.Action)
	}
	if !strings.Contains(result.Response, "$15,420.50") {
		t.Errorf("response missing formatted balance: %q", result.Response)
	}
	if !strings.Contains(result.Response, "checking account (#ACC-10001)") {
		t.Errorf("response missing account details: %q", result.Response)
	}
}

func TestBalanceBeatsTransactions(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowAccountServicing})

	// "balance" and "history" both present; balance bucket wins.
	result, err := a.ProcessMessage(context.Background(), "s1", "show my balance history", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != "balance_check" {
		t.Errorf("action = %q, want balance_check", result.Action)
	}
	if fs.txnCalls != 0 {
		t.Error("transaction lookup must not run when balance bucket matches")
	}
}

func TestTransactionHistory(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowAccountServicing})

	result, err := a.ProcessMessage(context.Background(), "s1", "show my recent transactions", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != "transaction_history" {
		t.Errorf("action = %q, want transaction_history", result.Action)
	}
	if !strings.Contains(result.Response, "Salary Deposit") {
		t.Errorf("response missing transaction line: %q", result.Response)
	}
	if fs.txnCalls != 1 {
		t.Errorf("transaction lookups = %d, want 1", fs.txnCalls)
	}
}

func TestAddressUpdatePrompt(t *testing.T) {
	a := New(newFakeStore(), &fakeLLM{label: types.FlowAccountServicing})

	result, err := a.ProcessMessage(context.Background(), "s1", "I need to change my address", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != "address_update_prompt" {
		t.Errorf("action = %q, want address_update_prompt", result.Action)
	}
	if !strings.Contains(result.Response, "provide your new address") {
		t.Errorf("unexpected response: %q", result.Response)
	}
}

func TestServicingFallbackIsBalance(t *testing.T) {
	fs := newFakeStore()
	a := New(fs, &fakeLLM{label: types.FlowAccountServicing})

	result, err := a.ProcessMessage(context.Background(), "s1", "tell me about my finances", "CUST001", true)
	if err != nil {
		t.Fatal(err)
	}
	if fs.balanceCalls != 1 {
		t.Errorf("balance lookups = %d, want 1 (fallback)", fs.balanceCalls)
	}
	if !strings.Contains(result.Response, "transaction history or profile updates") {
		t.Errorf("fallback response missing follow-up hint: %q", result.Response)
	}
}

func TestUnknownCustomerBalance(t *testing.T) {
	a := New(newFakeStore(), &fakeLLM{label: types.FlowAccountServicing})

	result, err := a.ProcessMessage(context.Background(), "s1", "what's my balance", "CUST999", true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Response != "Customer not found" {
		t.Errorf("response = %q, want Customer not found", result.Response)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15420.5, "15,420.50"},
		{0, "0.00"},
		{999.99, "999.99"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-8230, "-8,230.00"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
