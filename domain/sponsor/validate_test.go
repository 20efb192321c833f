package sponsor

import (
	"encoding/base64"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// ValidateAddress tests
// -----------------------------------------------------------------------------

func TestValidateAddress_Valid(t *testing.T) {
	valid := []string{
		"0x1",
		"0xab12",
		"0xAB12Cd",
		"0x" + strings.Repeat("a", 64),
	}

	for _, addr := range valid {
		if err := ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%q) = %v, want nil", addr, err)
		}
	}
}

func TestValidateAddress_Empty(t *testing.T) {
	if err := ValidateAddress(""); err != ErrEmptyAddress {
		t.Errorf("expected ErrEmptyAddress, got %v", err)
	}
}

func TestValidateAddress_Invalid(t *testing.T) {
	invalid := []string{
		"1234abcd",                      // missing prefix
		"0x",                            // prefix only
		"0xgg",                          // non-hex characters
		"0x12 34",                       // whitespace
		"0x" + strings.Repeat("a", 65),  // too long
		"ab0x12",                        // prefix not leading
	}

	for _, addr := range invalid {
		if err := ValidateAddress(addr); err != ErrInvalidAddress {
			t.Errorf("ValidateAddress(%q) = %v, want ErrInvalidAddress", addr, err)
		}
	}
}

// -----------------------------------------------------------------------------
// ValidateTransactionKind tests
// -----------------------------------------------------------------------------

func TestValidateTransactionKind_Valid(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("transaction kind payload"))

	if err := ValidateTransactionKind(b64); err != nil {
		t.Errorf("expected valid base64 payload to pass, got %v", err)
	}
}

func TestValidateTransactionKind_Empty(t *testing.T) {
	if err := ValidateTransactionKind(""); err != ErrEmptyTransaction {
		t.Errorf("expected ErrEmptyTransaction, got %v", err)
	}
}

func TestValidateTransactionKind_NotBase64(t *testing.T) {
	if err := ValidateTransactionKind("not-valid-base64!!"); err != ErrInvalidTransaction {
		t.Errorf("expected ErrInvalidTransaction, got %v", err)
	}
}

func TestValidateTransactionKind_TooLarge(t *testing.T) {
	huge := strings.Repeat("A", maxTransactionBytes+4)

	if err := ValidateTransactionKind(huge); err != ErrInvalidTransaction {
		t.Errorf("expected ErrInvalidTransaction for oversized payload, got %v", err)
	}
}

// -----------------------------------------------------------------------------
// ValidateValue tests
// -----------------------------------------------------------------------------

func TestValidateValue(t *testing.T) {
	if err := ValidateValue(0); err != nil {
		t.Errorf("expected zero value to pass, got %v", err)
	}
	if err := ValidateValue(150.5); err != nil {
		t.Errorf("expected positive value to pass, got %v", err)
	}
	if err := ValidateValue(-0.01); err != ErrNegativeValue {
		t.Errorf("expected ErrNegativeValue, got %v", err)
	}
}
