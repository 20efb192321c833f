package sponsor

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Validation errors returned for malformed sponsorship requests.
var (
	ErrEmptyAddress       = errors.New("user address is required")
	ErrInvalidAddress     = errors.New("user address is not a valid Sui address")
	ErrNegativeValue      = errors.New("estimated value must not be negative")
	ErrEmptyTransaction   = errors.New("transaction block bytes are required")
	ErrInvalidTransaction = errors.New("transaction block bytes are not valid base64")
)

// maxTransactionBytes caps the accepted transaction payload. Sui transaction
// blocks are well under this; anything larger is rejected before it reaches
// the provider.
const maxTransactionBytes = 128 * 1024

// ValidateAddress checks that s looks like a Sui address: "0x" followed by
// up to 64 hex characters. This is a superficial string check only - no
// on-chain existence or checksum verification.
// This is a PURE function.
func ValidateAddress(s string) error {
	if s == "" {
		return ErrEmptyAddress
	}
	if !strings.HasPrefix(s, "0x") {
		return ErrInvalidAddress
	}

	hex := s[2:]
	if len(hex) == 0 || len(hex) > 64 {
		return ErrInvalidAddress
	}
	for _, c := range hex {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return ErrInvalidAddress
		}
	}

	return nil
}

// ValidateTransactionKind checks that b64 is a non-empty, size-bounded
// base64 payload. The content is never decoded into a transaction - the
// provider and the network own real verification.
// This is a PURE function.
func ValidateTransactionKind(b64 string) error {
	if b64 == "" {
		return ErrEmptyTransaction
	}
	if len(b64) > maxTransactionBytes {
		return ErrInvalidTransaction
	}
	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		return ErrInvalidTransaction
	}
	return nil
}

// ValidateValue checks the caller-declared USD value.
// This is a PURE function.
func ValidateValue(v float64) error {
	if v < 0 {
		return ErrNegativeValue
	}
	return nil
}
