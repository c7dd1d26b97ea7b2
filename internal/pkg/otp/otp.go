package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric draws uniformly random codes with a fixed number of digits and no
// leading zero, so a 6-digit generator yields 100000 through 999999.
type Numeric struct {
	lo   int64
	span *big.Int
}

// NewNumeric returns a generator for codes of the given length. Lengths
// outside 4..9 fall back to 6.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 9 {
		digits = 6
	}

	lo := int64(1)
	for range digits - 1 {
		lo *= 10
	}

	return &Numeric{lo: lo, span: big.NewInt(lo*10 - lo)}
}

// Generate returns a fresh code from crypto/rand.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	return fmt.Sprintf("%d", n.lo+v.Int64()), nil
}
