package domain

import "strings"

// MaskIBAN hides all but the last 4 characters of an IBAN, preserving the
// original length. Values of 4 characters or fewer are returned as-is.
func MaskIBAN(iban string) string {
	iban = strings.TrimSpace(iban)
	if len(iban) <= 4 {
		return iban
	}
	return strings.Repeat("*", len(iban)-4) + iban[len(iban)-4:]
}
