package sim

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/pkg/address"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

var seed = bytes.Repeat([]byte{7}, 32)

func TestNew(t *testing.T) {
	h, err := New(Config{Seed: seed}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultFirmware, h.FirmwareVersion())

	_, err = address.ParseHelium(h.HotspotAddress())
	assert.NoError(t, err)

	again, err := New(Config{Seed: seed}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, h.HotspotAddress(), again.HotspotAddress())

	_, err = New(Config{Seed: []byte{1}}, zerolog.Nop())
	assert.Error(t, err)
	_, err = New(Config{Firmware: "latest"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestFirmwareReport(t *testing.T) {
	ctx := context.Background()
	h, err := New(Config{Firmware: "v1.2.0", Outdated: true}, zerolog.Nop())
	require.NoError(t, err)

	v, current, err := h.FirmwareReport(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", v)
	assert.False(t, current)

	_, current, err = h.FirmwareReport(ctx, "v1.1.9")
	require.NoError(t, err)
	assert.True(t, current)

	_, current, err = h.FirmwareReport(ctx, "v1.3.0")
	require.NoError(t, err)
	assert.False(t, current)
}

func TestNetworks(t *testing.T) {
	h, err := New(Config{Networks: []string{"a", "b"}, Connected: []string{"b"}}, zerolog.Nop())
	require.NoError(t, err)

	all, err := h.Networks(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, all)

	joined, err := h.Networks(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, joined)
}

func TestAddGateway(t *testing.T) {
	ctx := context.Background()
	h, err := New(Config{Seed: seed, WaitCount: 1}, zerolog.Nop())
	require.NoError(t, err)

	_, err = h.AddGateway(ctx, "owner", "payer")
	assert.ErrorIs(t, err, provisioning.ErrDeviceWait)

	payload, err := h.AddGateway(ctx, "owner", "payer")
	require.NoError(t, err)
	assert.False(t, provisioning.IsPlaceholderPayload(payload, provisioning.DefaultMinPayloadLength))

	txn, err := DecodeTransaction(payload)
	require.NoError(t, err)
	assert.Equal(t, "owner", txn.Owner)
	assert.Equal(t, "payer", txn.Payer)
	assert.Equal(t, h.HotspotAddress(), txn.Gateway)
	assert.NoError(t, VerifyTransaction(txn))

	txn.Owner = "someone else"
	assert.ErrorIs(t, VerifyTransaction(txn), ErrInvalidTransaction)

	_, err = h.AddGateway(ctx, "", "payer")
	assert.Error(t, err)
}

func TestAddGatewayPlaceholder(t *testing.T) {
	h, err := New(Config{Placeholder: true}, zerolog.Nop())
	require.NoError(t, err)

	payload, err := h.AddGateway(context.Background(), "owner", "")
	require.NoError(t, err)
	assert.True(t, provisioning.IsPlaceholderPayload(payload, provisioning.DefaultMinPayloadLength))
}
