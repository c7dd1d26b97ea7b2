package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxInput is the number of bytes bcrypt reads from its input.
const MaxInput = 72

// ErrTooLong is returned by Hash when plaintext plus pepper exceeds MaxInput
// bytes.
var ErrTooLong = errors.New("hash: input exceeds 72 bytes")

// Bcrypt implements Hash using bcrypt.
//
// The pepper is appended to the plaintext on both sides. It lives in
// configuration, never next to the digests.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. Costs outside bcrypt's accepted range
// fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	if len(plaintext)+len(h.pepper) > MaxInput {
		return nil, ErrTooLong
	}

	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
