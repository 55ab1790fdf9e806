package types

import "testing"

func TestIsBankingFlow(t *testing.T) {
	for _, f := range BankingFlows {
		if !IsBankingFlow(f) {
			t.Errorf("IsBankingFlow(%s) = false", f)
		}
	}
	for _, f := range []string{FlowHelp, FlowGreeting, FlowThanks, "", "card_atm_issues", "UNKNOWN"} {
		if IsBankingFlow(f) {
			t.Errorf("IsBankingFlow(%q) = true, want false", f)
		}
	}
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4532123456781234", "****1234"},
		{"1234", "1234"},
		{"12", "12"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskCardNumber(tt.in); got != tt.want {
			t.Errorf("MaskCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
