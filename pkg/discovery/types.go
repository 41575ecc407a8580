package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceType is the service type advertised by hotspots.
	ServiceType = "_hotspot._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default provisioning link port.
	DefaultPort = 8585
)

// TXT record keys.
const (
	TXTKeyID       = "id"   // Hotspot ID
	TXTKeyName     = "name" // Advertised name (optional)
	TXTKeyFirmware = "fw"   // Firmware version (optional)
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400
)

// BrowseTimeout is the default timeout for one-shot lookups.
const BrowseTimeout = 10 * time.Second

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInvalidInstanceName = errors.New("invalid instance name")
	ErrNotFound            = errors.New("service not found")
	ErrNoAddress           = errors.New("service has no usable address")
)

// Info is what a hotspot advertises.
type Info struct {
	// Instance is the mDNS instance name. Defaults to ID.
	Instance string

	// ID is the hotspot ID.
	ID string

	// Name is the advertised local name.
	Name string

	// Firmware is the running firmware version.
	Firmware string

	// Port is the provisioning link port. Defaults to DefaultPort.
	Port uint16
}

// Service is a discovered hotspot.
type Service struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised host name.
	Host string

	// Port is the provisioning link port.
	Port uint16

	// Addresses are the IP addresses seen for the service, across
	// interfaces.
	Addresses []string

	// ID is the hotspot ID from the TXT record.
	ID string

	// Name is the advertised local name.
	Name string

	// Firmware is the advertised firmware version.
	Firmware string
}
