// Package address converts between the two account encodings a hotspot
// owner may be recorded under: the Helium base58check address and the
// Solana base58 public key.
package address

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	// VersionMainnet is the address version byte prefixed before the payload.
	VersionMainnet byte = 0x00

	// KeyTypeEd25519 tags an ed25519 public key in the Helium payload.
	KeyTypeEd25519 byte = 0x01

	checksumLen = 4
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrChecksum       = errors.New("address checksum mismatch")
	ErrUnsupportedKey = errors.New("unsupported key type")
)

// Address is a decoded ed25519 account address.
type Address struct {
	PublicKey ed25519.PublicKey
}

// ParseHelium decodes a Helium base58check address.
func ParseHelium(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 1+1+ed25519.PublicKeySize+checksumLen {
		return Address{}, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(raw))
	}

	body, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if !bytes.Equal(checksum(body), sum) {
		return Address{}, ErrChecksum
	}
	if body[0] != VersionMainnet {
		return Address{}, fmt.Errorf("%w: version 0x%02x", ErrInvalidAddress, body[0])
	}
	if body[1] != KeyTypeEd25519 {
		return Address{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedKey, body[1])
	}

	pk := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pk, body[2:])
	return Address{PublicKey: pk}, nil
}

// ParseSolana decodes a Solana base58 public key.
func ParseSolana(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return Address{}, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(raw))
	}
	return Address{PublicKey: ed25519.PublicKey(raw)}, nil
}

// Parse decodes s in either encoding.
func Parse(s string) (Address, error) {
	if a, err := ParseHelium(s); err == nil {
		return a, nil
	}
	return ParseSolana(s)
}

// SameAccount reports whether x and y, each in either encoding, name the
// same key. Strings that are not addresses only match verbatim.
func SameAccount(x, y string) bool {
	if x == y {
		return x != ""
	}
	ax, err := Parse(x)
	if err != nil {
		return false
	}
	ay, err := Parse(y)
	if err != nil {
		return false
	}
	return ax.Equal(ay)
}

// FromPublicKey wraps an ed25519 public key.
func FromPublicKey(pk ed25519.PublicKey) Address {
	return Address{PublicKey: pk}
}

// Helium returns the base58check Helium form.
func (a Address) Helium() string {
	body := make([]byte, 0, 2+len(a.PublicKey)+checksumLen)
	body = append(body, VersionMainnet, KeyTypeEd25519)
	body = append(body, a.PublicKey...)
	body = append(body, checksum(body)...)
	return base58.Encode(body)
}

// Equal reports whether a and b hold the same key.
func (a Address) Equal(b Address) bool {
	return bytes.Equal(a.PublicKey, b.PublicKey)
}

// Solana returns the base58 public key form.
func (a Address) Solana() string {
	return base58.Encode(a.PublicKey)
}

// HeliumToSolana converts a Helium address to its Solana form.
func HeliumToSolana(s string) (string, error) {
	a, err := ParseHelium(s)
	if err != nil {
		return "", err
	}
	return a.Solana(), nil
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
