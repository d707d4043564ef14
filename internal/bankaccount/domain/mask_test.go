package domain

import "testing"

func TestMaskIBANPreservesLength(t *testing.T) {
	iban := "SA4420000001234567891234"
	got := MaskIBAN(iban)
	if len(got) != len(iban) {
		t.Fatalf("expected length %d, got %d", len(iban), len(got))
	}
	if got[len(got)-4:] != "1234" {
		t.Fatalf("expected last 4 visible, got %q", got)
	}
	for _, r := range got[:len(got)-4] {
		if r != '*' {
			t.Fatalf("expected masked prefix, got %q", got)
		}
	}
}

func TestMaskIBANShortValues(t *testing.T) {
	for _, iban := range []string{"", "A", "AB12"} {
		if got := MaskIBAN(iban); got != iban {
			t.Fatalf("expected %q unmasked, got %q", iban, got)
		}
	}
}

func TestMaskIBANFiveChars(t *testing.T) {
	if got := MaskIBAN("AB123"); got != "*B123" {
		t.Fatalf("expected *B123, got %q", got)
	}
}
