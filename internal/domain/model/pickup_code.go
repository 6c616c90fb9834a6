package model

import (
	"crypto/rand"
	"math/big"
	"regexp"

	"food-rescue-marketplace/internal/domain"
)

// codeAlphabet excludes visually ambiguous characters (I, O, 0, 1) so the
// code can be read aloud or copied from a receipt without confusion.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const generatedCodeLength = 6

var codePattern = regexp.MustCompile(`^[A-Z0-9]{4,8}$`)

// PickupCode is the short token a requester must present to collect a
// reserved offer. Compared by value.
type PickupCode struct {
	value string
}

// ParsePickupCode validates a literal against the wire format [A-Z0-9]{4,8}.
func ParsePickupCode(value string) (PickupCode, error) {
	if !codePattern.MatchString(value) {
		return PickupCode{}, domain.ErrInvalidArgument
	}
	return PickupCode{value: value}, nil
}

// NewPickupCode generates a cryptographically random 6-character code from
// the restricted alphabet.
func NewPickupCode() PickupCode {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, generatedCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// there is no sensible recovery for code generation.
			panic("pickup code: " + err.Error())
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return PickupCode{value: string(b)}
}

func (c PickupCode) String() string { return c.value }

func (c PickupCode) IsZero() bool { return c.value == "" }

func (c PickupCode) Equals(other PickupCode) bool { return c.value == other.value }
