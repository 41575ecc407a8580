package address

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) ed25519.PublicKey {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = b
	}
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func TestHeliumRoundTrip(t *testing.T) {
	a := FromPublicKey(testKey(7))

	s := a.Helium()
	got, err := ParseHelium(s)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey, got.PublicKey)
}

func TestHeliumLayout(t *testing.T) {
	pk := testKey(1)
	raw, err := base58.Decode(FromPublicKey(pk).Helium())
	require.NoError(t, err)

	require.Len(t, raw, 38)
	assert.Equal(t, VersionMainnet, raw[0])
	assert.Equal(t, KeyTypeEd25519, raw[1])
	assert.Equal(t, []byte(pk), raw[2:34])
}

func TestSolanaIsBase58PublicKey(t *testing.T) {
	pk := testKey(2)
	a := FromPublicKey(pk)

	assert.Equal(t, base58.Encode(pk), a.Solana())

	back, err := ParseSolana(a.Solana())
	require.NoError(t, err)
	assert.Equal(t, pk, back.PublicKey)
}

func TestHeliumToSolana(t *testing.T) {
	a := FromPublicKey(testKey(3))

	sol, err := HeliumToSolana(a.Helium())
	require.NoError(t, err)
	assert.Equal(t, a.Solana(), sol)
	assert.NotEqual(t, a.Helium(), sol)
}

func TestParseHelium_Errors(t *testing.T) {
	good, err := base58.Decode(FromPublicKey(testKey(4)).Helium())
	require.NoError(t, err)

	t.Run("not base58", func(t *testing.T) {
		_, err := ParseHelium("0OIl")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("short", func(t *testing.T) {
		_, err := ParseHelium(base58.Encode(good[:10]))
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("bad checksum", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[len(bad)-1] ^= 0xff
		_, err := ParseHelium(base58.Encode(bad))
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("solana form", func(t *testing.T) {
		_, err := ParseHelium(FromPublicKey(testKey(4)).Solana())
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("key type", func(t *testing.T) {
		body := append([]byte(nil), good[:len(good)-checksumLen]...)
		body[1] = 0x00
		body = append(body, checksum(body)...)
		_, err := ParseHelium(base58.Encode(body))
		assert.ErrorIs(t, err, ErrUnsupportedKey)
	})
}

func TestParseSolana_WrongLength(t *testing.T) {
	_, err := ParseSolana(base58.Encode([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestParseEitherEncoding(t *testing.T) {
	a := FromPublicKey(testKey(5))

	fromHelium, err := Parse(a.Helium())
	require.NoError(t, err)
	assert.True(t, fromHelium.Equal(a))

	fromSolana, err := Parse(a.Solana())
	require.NoError(t, err)
	assert.True(t, fromSolana.Equal(a))

	_, err = Parse("nope")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSameAccount(t *testing.T) {
	a := FromPublicKey(testKey(5))
	b := FromPublicKey(testKey(6))

	assert.True(t, SameAccount(a.Helium(), a.Solana()))
	assert.True(t, SameAccount(a.Solana(), a.Helium()))
	assert.True(t, SameAccount(a.Helium(), a.Helium()))
	assert.False(t, SameAccount(a.Helium(), b.Helium()))
	assert.False(t, SameAccount(a.Helium(), b.Solana()))
	assert.True(t, SameAccount("plain", "plain"))
	assert.False(t, SameAccount("plain", a.Helium()))
	assert.False(t, SameAccount("", ""))
}
