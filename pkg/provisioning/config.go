package provisioning

import (
	"fmt"
	"strings"

	"github.com/NebraLtd/maker-starter-app/pkg/version"
)

// Defaults.
const (
	// DefaultLegacyBaseline is the oldest firmware accepted even when the
	// device reports itself out of date.
	DefaultLegacyBaseline = "v0.9.9"

	// DefaultMinPayloadLength is the shortest payload treated as a real
	// transaction.
	DefaultMinPayloadLength = 20

	// PlaceholderCheckDisabled as MinPayloadLength turns the placeholder
	// payload check off; every payload is then taken as a transaction.
	PlaceholderCheckDisabled = -1

	// DefaultDeviceType is the network type used for ownership lookups
	// when the maker has no mapping.
	DefaultDeviceType = "iot"
)

// Config holds the coordinator settings.
type Config struct {
	// FallbackPayer is used when the onboarding record has no payer or maker.
	FallbackPayer string `yaml:"fallback_payer"`

	// LegacyBaseline is compared inclusively against the device version.
	LegacyBaseline string `yaml:"legacy_baseline"`

	// MinPayloadLength gates IsPlaceholderPayload. Zero means
	// DefaultMinPayloadLength; PlaceholderCheckDisabled turns it off.
	MinPayloadLength int `yaml:"min_payload_length"`

	// DefaultDeviceType is used when MakerDeviceTypes has no entry.
	DefaultDeviceType string `yaml:"default_device_type"`

	// MakerDeviceTypes maps a maker address to the network types its
	// hotspots serve; the first entry is used for ownership lookups.
	MakerDeviceTypes map[string][]string `yaml:"maker_device_types"`

	// VerifyWalletLink checks the token signature before use.
	VerifyWalletLink bool `yaml:"verify_wallet_link"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		LegacyBaseline:    DefaultLegacyBaseline,
		MinPayloadLength:  DefaultMinPayloadLength,
		DefaultDeviceType: DefaultDeviceType,
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.LegacyBaseline == "" {
		c.LegacyBaseline = DefaultLegacyBaseline
	}
	if c.MinPayloadLength == 0 {
		c.MinPayloadLength = DefaultMinPayloadLength
	}
	if c.DefaultDeviceType == "" {
		c.DefaultDeviceType = DefaultDeviceType
	}
	return c
}

// Validate checks the settings after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if _, err := version.Parse(c.LegacyBaseline); err != nil {
		return fmt.Errorf("%w: legacy baseline: %v", ErrInvalidConfig, err)
	}
	if c.MinPayloadLength < PlaceholderCheckDisabled {
		return fmt.Errorf("%w: min payload length %d", ErrInvalidConfig, c.MinPayloadLength)
	}
	return nil
}

// DeviceTypeFor returns the ownership lookup type for a maker address.
func (c Config) DeviceTypeFor(maker string) string {
	if types := c.MakerDeviceTypes[maker]; len(types) > 0 && strings.TrimSpace(types[0]) != "" {
		return types[0]
	}
	if c.DefaultDeviceType == "" {
		return DefaultDeviceType
	}
	return c.DefaultDeviceType
}
