// Package config loads the settings shared by the hotspot CLIs: a YAML
// file with defaults, overridden by HOTSPOT_* environment variables
// (optionally from a .env file).
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
	"github.com/NebraLtd/maker-starter-app/pkg/scan"
)

// Environment variable names.
const (
	EnvConfig           = "HOTSPOT_CONFIG"
	EnvRadio            = "HOTSPOT_RADIO"
	EnvBLEAdapter       = "HOTSPOT_BLE_ADAPTER"
	EnvMDNSInterface    = "HOTSPOT_MDNS_INTERFACE"
	EnvLinkAddr         = "HOTSPOT_LINK_ADDR"
	EnvRequestTimeout   = "HOTSPOT_REQUEST_TIMEOUT"
	EnvScanDuration     = "HOTSPOT_SCAN_DURATION"
	EnvDirectoryURL     = "HOTSPOT_DIRECTORY_URL"
	EnvDirectoryTimeout = "HOTSPOT_DIRECTORY_TIMEOUT"
	EnvCredPath         = "HOTSPOT_CRED_PATH"
	EnvCredPassphrase   = "HOTSPOT_CRED_PASSPHRASE"
	EnvHistoryDB        = "HOTSPOT_HISTORY_DB"
	EnvEventLog         = "HOTSPOT_EVENT_LOG"
	EnvLogLevel         = "HOTSPOT_LOG_LEVEL"
	EnvFallbackPayer    = "HOTSPOT_FALLBACK_PAYER"
	EnvVerifyWalletLink = "HOTSPOT_VERIFY_WALLET_LINK"
	EnvMinPayloadLength = "HOTSPOT_MIN_PAYLOAD_LENGTH"
)

// Radio backends.
const (
	RadioBLE  = "ble"
	RadioMDNS = "mdns"
	RadioTCP  = "tcp"
)

// DefaultDirectoryURL points at a locally served directory stub.
const DefaultDirectoryURL = "http://127.0.0.1:8686"

// Config is the full CLI configuration.
type Config struct {
	Provisioning provisioning.Config `yaml:"provisioning"`
	Radio        RadioConfig         `yaml:"radio"`
	Scan         ScanConfig          `yaml:"scan"`
	Directory    DirectoryConfig     `yaml:"directory"`
	Credentials  CredentialsConfig   `yaml:"credentials"`

	// HistoryDB is the sqlite attempt journal path.
	HistoryDB string `yaml:"history_db"`

	// EventLog is the provisioning trace path; empty disables it.
	EventLog string `yaml:"event_log"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// RadioConfig selects how hotspots are found and reached.
type RadioConfig struct {
	// Backend is "ble", "mdns" or "tcp".
	Backend string `yaml:"backend"`

	// Adapter is the BlueZ adapter path ("" for the first).
	Adapter string `yaml:"adapter"`

	// Interface restricts mDNS to one network interface.
	Interface string `yaml:"interface"`

	// Address is the fixed host:port for the tcp backend.
	Address string `yaml:"address"`

	// RequestTimeout bounds one link round trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ScanConfig configures scan sessions.
type ScanConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// DirectoryConfig configures the directory client.
type DirectoryConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CredentialsConfig configures the credential store.
type CredentialsConfig struct {
	// Path is the sealed store file.
	Path string `yaml:"path"`

	// Passphrase unlocks the store. Prefer HOTSPOT_CRED_PASSPHRASE.
	Passphrase string `yaml:"passphrase"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Provisioning: provisioning.DefaultConfig(),
		Radio: RadioConfig{
			Backend:        RadioBLE,
			RequestTimeout: 10 * time.Second,
		},
		Scan: ScanConfig{Duration: scan.DefaultDuration},
		Directory: DirectoryConfig{
			URL:     DefaultDirectoryURL,
			Timeout: 15 * time.Second,
		},
		Credentials: CredentialsConfig{Path: filepath.Join(dir, "credentials.json")},
		HistoryDB:   filepath.Join(dir, "history.db"),
		LogLevel:    "info",
	}
}

// DataDir is the default directory for local state.
func DataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".hotspot")
	}
	return ".hotspot"
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment, in that order. An empty path falls back to
// HOTSPOT_CONFIG; a missing file is only an error when path was given.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = String(EnvConfig, "")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, errors.Wrap(err, "read config")
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Radio.Backend = String(EnvRadio, c.Radio.Backend)
	c.Radio.Adapter = String(EnvBLEAdapter, c.Radio.Adapter)
	c.Radio.Interface = String(EnvMDNSInterface, c.Radio.Interface)
	c.Radio.Address = String(EnvLinkAddr, c.Radio.Address)
	c.Radio.RequestTimeout = Duration(EnvRequestTimeout, c.Radio.RequestTimeout)
	c.Scan.Duration = Duration(EnvScanDuration, c.Scan.Duration)
	c.Directory.URL = String(EnvDirectoryURL, c.Directory.URL)
	c.Directory.Timeout = Duration(EnvDirectoryTimeout, c.Directory.Timeout)
	c.Credentials.Path = String(EnvCredPath, c.Credentials.Path)
	c.Credentials.Passphrase = String(EnvCredPassphrase, c.Credentials.Passphrase)
	c.HistoryDB = String(EnvHistoryDB, c.HistoryDB)
	c.EventLog = String(EnvEventLog, c.EventLog)
	c.LogLevel = String(EnvLogLevel, c.LogLevel)
	c.Provisioning.FallbackPayer = String(EnvFallbackPayer, c.Provisioning.FallbackPayer)
	c.Provisioning.VerifyWalletLink = Bool(EnvVerifyWalletLink, c.Provisioning.VerifyWalletLink)
	c.Provisioning.MinPayloadLength = Int(EnvMinPayloadLength, c.Provisioning.MinPayloadLength)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Radio.Backend {
	case RadioBLE, RadioMDNS:
	case RadioTCP:
		if c.Radio.Address == "" {
			return errors.Errorf("radio backend %q needs an address (%s)", RadioTCP, EnvLinkAddr)
		}
	default:
		return errors.Errorf("unknown radio backend %q", c.Radio.Backend)
	}
	if c.Scan.Duration <= 0 {
		return errors.Errorf("scan duration must be positive, got %s", c.Scan.Duration)
	}
	if c.Directory.URL == "" {
		return errors.New("directory url is empty")
	}
	return errors.Wrap(c.Provisioning.Validate(), "provisioning")
}
