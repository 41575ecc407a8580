package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/internal/sim"
	"github.com/NebraLtd/maker-starter-app/pkg/discovery"
)

func TestLoadSimConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("firmware: v1.0.0\nnetworks: [a, b]\nwait_count: 2\n"), 0o600))

	cfg, err := loadSimConfig(options{
		configPath: path,
		seed:       hex.EncodeToString(make([]byte, 32)),
		sim:        sim.Config{Connected: []string{"a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", cfg.Firmware)
	assert.Equal(t, []string{"a", "b"}, cfg.Networks)
	assert.Equal(t, []string{"a"}, cfg.Connected)
	assert.Equal(t, 2, cfg.WaitCount)
	assert.Len(t, cfg.Seed, 32)

	_, err = loadSimConfig(options{seed: "zz"})
	assert.Error(t, err)
	_, err = loadSimConfig(options{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	id := shortID("112qB3YaH5bZkCnKA5uRH7tBtGNv2Y5B4smv1jsmvGUzgKT71QpE")
	assert.True(t, strings.HasPrefix(id, "hotspot-"))
	assert.NoError(t, discovery.ValidateInstanceName(id))
	assert.Equal(t, "hotspot-ab", shortID("ab"))
}

func TestDirectoryStubRegistersHotspot(t *testing.T) {
	h, err := sim.New(sim.Config{}, zerolog.Nop())
	require.NoError(t, err)

	srv, err := directoryStub(options{maker: "maker", owner: "owner", minFirmware: "v1.0.0"}, h, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, srv)
	assert.NotNil(t, srv.Router())
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"listen", "firmware", "networks", "directory", "seed", "event-log"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
