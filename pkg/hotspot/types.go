// Package hotspot holds the value types shared by the provisioning core and
// its adapters: discovered devices, firmware reports and directory records.
package hotspot

// Device is a hotspot seen by a radio scan.
type Device struct {
	// ID is the radio handle for this scan session (BLE MAC, mDNS instance).
	// It is not stable across scans.
	ID string

	// Address is the durable network identity. Empty until resolved over a
	// connected link.
	Address string

	// Name is the advertised local name, if any.
	Name string

	// RSSI is the last seen signal strength (0 if unknown).
	RSSI int16
}

// FirmwareInfo is the firmware report read from a device.
type FirmwareInfo struct {
	// DeviceVersion is the version string reported by the device (e.g. "v1.2.3").
	DeviceVersion string

	// Current is the link layer's verdict against the directory minimum.
	// It may be stale.
	Current bool
}

// OnboardingRecord is the directory's authorization metadata for a device.
type OnboardingRecord struct {
	// MakerAddress identifies the manufacturer account.
	MakerAddress string

	// PayerAddress is the account paying registration fees (optional).
	PayerAddress string
}

// OwnershipDetails describes the registered owner of a device.
type OwnershipDetails struct {
	Owner string
}
