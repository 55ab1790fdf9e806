package store

import "strings"

// ValidatePIN reports whether pin is exactly four digits.
func ValidatePIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateCustomerID reports whether id matches the CUSTxxxx format.
func ValidateCustomerID(id string) bool {
	return strings.HasPrefix(id, "CUST") && len(id) == 8
}

// SanitizeInput strips characters commonly used in injection payloads.
func SanitizeInput(text string) string {
	for _, s := range []string{"<", ">", `"`, "'", ";", "--"} {
		text = strings.ReplaceAll(text, s, "")
	}
	return strings.TrimSpace(text)
}
