// Package payload encodes the invoice payload that Telegram round-trips
// between sendInvoice and successful_payment.
package payload

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the payload fields
const Delimiter = "|"

// MaxLength is the Telegram limit for invoice payloads, in bytes
const MaxLength = 128

// ErrMalformed is returned for payloads that cannot be decoded
var ErrMalformed = errors.New("malformed invoice payload")

// ErrInvalidField is returned when a field cannot be encoded safely
var ErrInvalidField = errors.New("invalid invoice payload field")

// Payload correlates a completed payment with its purchase intent
type Payload struct {
	Catalog   string
	ProductID string
	UserID    string
}

// Encode renders the payload as catalog|productId|userId
func Encode(p Payload) (string, error) {
	fields := []struct {
		name, value string
	}{
		{"catalog", p.Catalog},
		{"product id", p.ProductID},
		{"user id", p.UserID},
	}
	for _, f := range fields {
		if f.value == "" {
			return "", fmt.Errorf("%w: %s is empty", ErrInvalidField, f.name)
		}
		if strings.Contains(f.value, Delimiter) {
			return "", fmt.Errorf("%w: %s contains %q", ErrInvalidField, f.name, Delimiter)
		}
	}

	s := p.Catalog + Delimiter + p.ProductID + Delimiter + p.UserID
	if len(s) > MaxLength {
		return "", fmt.Errorf("%w: payload is %d bytes, limit %d", ErrInvalidField, len(s), MaxLength)
	}
	return s, nil
}

// Decode parses a payload produced by Encode
func Decode(s string) (Payload, error) {
	parts := strings.Split(s, Delimiter)
	if len(parts) != 3 {
		return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	for _, part := range parts {
		if part == "" {
			return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}
	return Payload{Catalog: parts[0], ProductID: parts[1], UserID: parts[2]}, nil
}
