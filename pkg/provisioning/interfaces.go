package provisioning

import (
	"context"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// DeviceLink is the radio session to one hotspot at a time.
//
// Implementations return errors wrapping ErrLinkFailure for transport
// problems, ErrLinkBusy when held by another device and ErrDeviceWait when
// the device asks for a retry later.
type DeviceLink interface {
	IsConnected(ctx context.Context) (bool, error)
	Connect(ctx context.Context, device hotspot.Device) error
	Disconnect() error

	// GetFirmwareReport reads the device firmware and its verdict against
	// minVersion (empty means no requirement).
	GetFirmwareReport(ctx context.Context, minVersion string) (hotspot.FirmwareInfo, error)

	// ListNetworks returns visible network names, or only the joined ones
	// when connectedOnly is set. Names may repeat.
	ListNetworks(ctx context.Context, connectedOnly bool) ([]string, error)

	ResolveDeviceAddress(ctx context.Context) (string, error)

	// CreateSignedGatewayPayload asks the device to sign an add-gateway
	// transaction binding owner and payer.
	CreateSignedGatewayPayload(ctx context.Context, owner, payer string) ([]byte, error)
}

// DirectoryClient queries the remote directory. Absence is reported as
// ("", false, nil) or a nil record, never as an error.
type DirectoryClient interface {
	GetMinimumFirmware(ctx context.Context) (string, bool, error)
	GetOnboardingRecord(ctx context.Context, address string) (*hotspot.OnboardingRecord, error)
	GetDeviceOwnershipDetails(ctx context.Context, address, deviceType string) (*hotspot.OwnershipDetails, error)
}

// CredentialStore gives read access to the linked wallet.
type CredentialStore interface {
	WalletLinkToken(ctx context.Context) (string, bool, error)
	OwnerAddress(ctx context.Context) (string, bool, error)
}
