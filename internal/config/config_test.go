package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotspot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, RadioBLE, cfg.Radio.Backend)
	assert.Equal(t, 6*time.Second, cfg.Scan.Duration)
	assert.Equal(t, DefaultDirectoryURL, cfg.Directory.URL)
	assert.Equal(t, provisioning.DefaultLegacyBaseline, cfg.Provisioning.LegacyBaseline)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
provisioning:
  fallback_payer: 13fallback
  maker_device_types:
    13maker: [mobile, iot]
radio:
  backend: tcp
  address: 127.0.0.1:8585
scan:
  duration: 3s
directory:
  url: http://directory.local
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "13fallback", cfg.Provisioning.FallbackPayer)
	assert.Equal(t, "mobile", cfg.Provisioning.DeviceTypeFor("13maker"))
	assert.Equal(t, provisioning.DefaultMinPayloadLength, cfg.Provisioning.MinPayloadLength)
	assert.Equal(t, RadioTCP, cfg.Radio.Backend)
	assert.Equal(t, 3*time.Second, cfg.Scan.Duration)
	assert.Equal(t, "http://directory.local", cfg.Directory.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "radio:\n  backend: ble\n")
	t.Setenv(EnvRadio, "mdns")
	t.Setenv(EnvScanDuration, "9s")
	t.Setenv(EnvFallbackPayer, "13env")
	t.Setenv(EnvVerifyWalletLink, "yes")
	t.Setenv(EnvCredPassphrase, "pw")
	t.Setenv(EnvMinPayloadLength, "-1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RadioMDNS, cfg.Radio.Backend)
	assert.Equal(t, 9*time.Second, cfg.Scan.Duration)
	assert.Equal(t, "13env", cfg.Provisioning.FallbackPayer)
	assert.True(t, cfg.Provisioning.VerifyWalletLink)
	assert.Equal(t, "pw", cfg.Credentials.Passphrase)
	assert.Equal(t, provisioning.PlaceholderCheckDisabled, cfg.Provisioning.MinPayloadLength)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvConfig, "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	_, err = Load(writeFile(t, "radio: [oops"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "radio:\n  backend: tcp\n"))
	assert.ErrorContains(t, err, "needs an address")

	_, err = Load(writeFile(t, "radio:\n  backend: carrier-pigeon\n"))
	assert.ErrorContains(t, err, "unknown radio backend")

	_, err = Load(writeFile(t, "provisioning:\n  legacy_baseline: banana\n"))
	assert.ErrorIs(t, err, provisioning.ErrInvalidConfig)
}

func TestLoad_MissingEnvConfigIgnored(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load("")
	assert.NoError(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HOTSPOT_TEST_INT", "42")
	t.Setenv("HOTSPOT_TEST_BAD", "x")
	t.Setenv("HOTSPOT_TEST_BOOL", "false")

	assert.Equal(t, 42, Int("HOTSPOT_TEST_INT", 1))
	assert.Equal(t, 1, Int("HOTSPOT_TEST_BAD", 1))
	assert.Equal(t, time.Second, Duration("HOTSPOT_TEST_BAD", time.Second))
	assert.False(t, Bool("HOTSPOT_TEST_BOOL", true))
	assert.True(t, Bool("HOTSPOT_TEST_BAD", true))
	assert.Equal(t, "fb", String("HOTSPOT_TEST_UNSET", "fb"))
}
