// Package sim is a software hotspot: it answers link requests the way
// field firmware does, with a generated ed25519 identity and a signed
// add-gateway transaction.
package sim

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/address"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
	"github.com/NebraLtd/maker-starter-app/pkg/version"
)

// DefaultFirmware is the simulated firmware version.
const DefaultFirmware = "v2.1.0"

// PlaceholderPayload is what affected firmware returns instead of a
// transaction for a hotspot that is already registered.
var PlaceholderPayload = []byte("already added")

// ErrInvalidTransaction is returned by VerifyTransaction.
var ErrInvalidTransaction = errors.New("invalid gateway transaction")

// Config describes the simulated hotspot.
type Config struct {
	// Firmware is the reported version. Default: DefaultFirmware.
	Firmware string `yaml:"firmware"`

	// Outdated is reported when no minimum version is sent.
	Outdated bool `yaml:"outdated"`

	// Networks are the visible Wi-Fi networks.
	Networks []string `yaml:"networks"`

	// Connected are the networks the hotspot has joined.
	Connected []string `yaml:"connected"`

	// WaitCount makes the first N add-gateway requests answer "wait".
	WaitCount int `yaml:"wait_count"`

	// Placeholder answers add-gateway with PlaceholderPayload.
	Placeholder bool `yaml:"placeholder"`

	// Seed fixes the identity key (32 bytes). Empty generates one.
	Seed []byte `yaml:"seed"`
}

// Transaction is the add-gateway payload the simulator signs.
type Transaction struct {
	Gateway   string `cbor:"1,keyasint"`
	Owner     string `cbor:"2,keyasint"`
	Payer     string `cbor:"3,keyasint"`
	Nonce     uint64 `cbor:"4,keyasint"`
	Signature []byte `cbor:"5,keyasint,omitempty"`
}

func (t Transaction) unsigned() ([]byte, error) {
	t.Signature = nil
	return cbor.Marshal(t)
}

// Hotspot implements link.Handler.
type Hotspot struct {
	cfg     Config
	key     ed25519.PrivateKey
	address string
	logger  zerolog.Logger

	mu    sync.Mutex
	waits int
	nonce uint64
}

// New creates a hotspot from cfg.
func New(cfg Config, logger zerolog.Logger) (*Hotspot, error) {
	if cfg.Firmware == "" {
		cfg.Firmware = DefaultFirmware
	}
	if _, err := version.Parse(cfg.Firmware); err != nil {
		return nil, fmt.Errorf("firmware: %w", err)
	}

	var key ed25519.PrivateKey
	switch len(cfg.Seed) {
	case 0:
		_, k, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		key = k
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(cfg.Seed)
	default:
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(cfg.Seed))
	}

	return &Hotspot{
		cfg:     cfg,
		key:     key,
		address: address.FromPublicKey(key.Public().(ed25519.PublicKey)).Helium(),
		logger:  logger,
		waits:   cfg.WaitCount,
	}, nil
}

// HotspotAddress returns the Helium address of the simulated identity.
func (h *Hotspot) HotspotAddress() string { return h.address }

// FirmwareVersion returns the reported version.
func (h *Hotspot) FirmwareVersion() string { return h.cfg.Firmware }

// FirmwareReport compares the firmware against minVersion.
func (h *Hotspot) FirmwareReport(_ context.Context, minVersion string) (string, bool, error) {
	if minVersion == "" {
		return h.cfg.Firmware, !h.cfg.Outdated, nil
	}
	ok, err := version.AtLeast(h.cfg.Firmware, minVersion)
	if err != nil {
		// Unparseable minimums are ignored, as field firmware does.
		h.logger.Warn().Err(err).Str("min", minVersion).Msg("bad minimum version")
		return h.cfg.Firmware, !h.cfg.Outdated, nil
	}
	return h.cfg.Firmware, ok, nil
}

// Networks returns the visible or joined networks.
func (h *Hotspot) Networks(_ context.Context, connectedOnly bool) ([]string, error) {
	if connectedOnly {
		return append([]string(nil), h.cfg.Connected...), nil
	}
	return append([]string(nil), h.cfg.Networks...), nil
}

// Address returns the hotspot address.
func (h *Hotspot) Address(context.Context) (string, error) {
	return h.address, nil
}

// AddGateway signs a transaction adding this hotspot for owner, paid by
// payer.
func (h *Hotspot) AddGateway(_ context.Context, owner, payer string) ([]byte, error) {
	if owner == "" {
		return nil, errors.New("owner required")
	}

	h.mu.Lock()
	if h.waits > 0 {
		h.waits--
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: miner not ready", provisioning.ErrDeviceWait)
	}
	h.nonce++
	nonce := h.nonce
	h.mu.Unlock()

	if h.cfg.Placeholder {
		return append([]byte(nil), PlaceholderPayload...), nil
	}

	txn := Transaction{Gateway: h.address, Owner: owner, Payer: payer, Nonce: nonce}
	msg, err := txn.unsigned()
	if err != nil {
		return nil, err
	}
	txn.Signature = ed25519.Sign(h.key, msg)
	out, err := cbor.Marshal(txn)
	if err != nil {
		return nil, err
	}
	h.logger.Info().Str("owner", owner).Str("payer", payer).Uint64("nonce", nonce).Msg("signed add-gateway")
	return out, nil
}

// DecodeTransaction parses a payload produced by AddGateway.
func DecodeTransaction(data []byte) (Transaction, error) {
	var txn Transaction
	if err := cbor.Unmarshal(data, &txn); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return txn, nil
}

// VerifyTransaction checks the gateway signature.
func VerifyTransaction(txn Transaction) error {
	addr, err := address.ParseHelium(txn.Gateway)
	if err != nil {
		return fmt.Errorf("%w: gateway: %v", ErrInvalidTransaction, err)
	}
	msg, err := txn.unsigned()
	if err != nil {
		return err
	}
	if !ed25519.Verify(addr.PublicKey, msg, txn.Signature) {
		return fmt.Errorf("%w: bad signature", ErrInvalidTransaction)
	}
	return nil
}
