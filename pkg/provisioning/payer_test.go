package provisioning

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NebraLtd/maker-starter-app/pkg/address"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

func TestResolvePayer(t *testing.T) {
	assert.Equal(t, "p", ResolvePayer(&hotspot.OnboardingRecord{MakerAddress: "m", PayerAddress: "p"}, "f"))
	assert.Equal(t, "m", ResolvePayer(&hotspot.OnboardingRecord{MakerAddress: "m"}, "f"))
	assert.Equal(t, "f", ResolvePayer(&hotspot.OnboardingRecord{}, "f"))
	assert.Equal(t, "f", ResolvePayer(nil, "f"))
	assert.Equal(t, "", ResolvePayer(nil, ""))
}

func TestIsPlaceholderPayload(t *testing.T) {
	assert.True(t, IsPlaceholderPayload(nil, 20))
	assert.True(t, IsPlaceholderPayload(make([]byte, 19), 20))
	assert.False(t, IsPlaceholderPayload(make([]byte, 20), 20))
	assert.False(t, IsPlaceholderPayload(nil, 0))
	assert.False(t, IsPlaceholderPayload(nil, PlaceholderCheckDisabled))
}

func TestOwnerMatches(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	a := address.FromPublicKey(ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey))
	caller := a.Helium()

	ok, enc := ownerMatches(caller, caller)
	assert.True(t, ok)
	assert.Equal(t, "helium", enc)

	ok, enc = ownerMatches(a.Solana(), caller)
	assert.True(t, ok)
	assert.Equal(t, "solana", enc)

	// A caller stored in Solana form still matches either encoding.
	ok, enc = ownerMatches(caller, a.Solana())
	assert.True(t, ok)
	assert.Equal(t, "helium", enc)

	ok, enc = ownerMatches(a.Solana(), a.Solana())
	assert.True(t, ok)
	assert.Equal(t, "solana", enc)

	ok, _ = ownerMatches("someone", caller)
	assert.False(t, ok)

	// A caller that is not an address only matches verbatim.
	ok, _ = ownerMatches(a.Solana(), "not-an-address")
	assert.False(t, ok)
	ok, enc = ownerMatches("not-an-address", "not-an-address")
	assert.True(t, ok)
	assert.Equal(t, "verbatim", enc)

	ok, _ = ownerMatches("", "")
	assert.False(t, ok)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, dedupe([]string{"A", "A", "B"}))
	assert.Equal(t, []string{"B"}, dedupe([]string{"B"}))
	assert.Equal(t, []string{"b", "a"}, dedupe([]string{"b", "a", "b", "a"}))
	assert.Equal(t, []string{}, dedupe(nil))
}

func TestConfigDeviceTypeFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MakerDeviceTypes = map[string][]string{
		"maker1": {"mobile"},
		"maker2": {},
	}
	assert.Equal(t, "mobile", cfg.DeviceTypeFor("maker1"))
	assert.Equal(t, "iot", cfg.DeviceTypeFor("maker2"))
	assert.Equal(t, "iot", cfg.DeviceTypeFor(""))
	assert.Equal(t, "iot", Config{}.DeviceTypeFor("x"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())
	assert.ErrorIs(t, Config{LegacyBaseline: "abc"}.Validate(), ErrInvalidConfig)
	assert.NoError(t, Config{MinPayloadLength: PlaceholderCheckDisabled}.Validate())
	assert.ErrorIs(t, Config{MinPayloadLength: -2}.Validate(), ErrInvalidConfig)
	assert.Equal(t, PlaceholderCheckDisabled, Config{MinPayloadLength: PlaceholderCheckDisabled}.withDefaults().MinPayloadLength)
}
