package provisioning

// State is a coordinator step.
type State uint8

const (
	// StateIdle means no attempt is running.
	StateIdle State = iota

	// StateConnecting establishes (or reuses) the device link.
	StateConnecting

	// StateFirmwareCheck compares the device firmware to the requirement.
	StateFirmwareCheck

	// StateNetworkDiscovery lists networks, resolves the device address
	// and the payer.
	StateNetworkDiscovery

	// StateOwnershipResolution checks the directory for an existing owner.
	StateOwnershipResolution

	// StateTransactionCreation asks the device to sign an add-gateway
	// transaction.
	StateTransactionCreation

	// StateTerminal means the last attempt produced an outcome.
	StateTerminal
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateFirmwareCheck:
		return "FIRMWARE_CHECK"
	case StateNetworkDiscovery:
		return "NETWORK_DISCOVERY"
	case StateOwnershipResolution:
		return "OWNERSHIP_RESOLUTION"
	case StateTransactionCreation:
		return "TRANSACTION_CREATION"
	case StateTerminal:
		return "TERMINAL"
	default:
		return "UNKNOWN"
	}
}

// Action selects the coordinator path.
type Action uint8

const (
	// ActionAddGateway registers a new hotspot.
	ActionAddGateway Action = iota

	// ActionUpdateGateway reconfigures an already registered hotspot.
	ActionUpdateGateway
)

// String returns the action name used in traces and history.
func (a Action) String() string {
	switch a {
	case ActionAddGateway:
		return "add_gateway"
	case ActionUpdateGateway:
		return "update_gateway"
	default:
		return "unknown"
	}
}
