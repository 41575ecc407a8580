package log

import (
	"time"
)

// Event is one entry of the provisioning trace.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one link session or coordinator attempt (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow for link events.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole is the side that recorded the event.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// DeviceID is the radio handle of the hotspot.
	DeviceID string `cbor:"7,keyasint,omitempty"`

	// DeviceAddress is the durable hotspot address, once resolved.
	DeviceAddress string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Outcome     *OutcomeEvent     `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerFrame is the link framing layer (raw bytes).
	LayerFrame Layer = 0
	// LayerMessage is the decoded link message layer.
	LayerMessage Layer = 1
	// LayerCoordinator is the provisioning state machine.
	LayerCoordinator Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerFrame:
		return "FRAME"
	case LayerMessage:
		return "MESSAGE"
	case LayerCoordinator:
		return "COORDINATOR"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a link frame or message.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryOutcome indicates a terminal provisioning outcome.
	CategoryOutcome Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryOutcome:
		return "OUTCOME"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role is the side recording the event.
type Role uint8

const (
	// RoleProvisioner is the app or CLI driving the hotspot.
	RoleProvisioner Role = 0
	// RoleHotspot is the device (or simulator) side of the link.
	RoleHotspot Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleProvisioner:
		return "PROVISIONER"
	case RoleHotspot:
		return "HOTSPOT"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the link layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded link message.
type MessageEvent struct {
	// Type is the link message type name, e.g. "networks_request".
	Type string `cbor:"1,keyasint"`

	// RequestID correlates requests and responses.
	RequestID uint32 `cbor:"2,keyasint"`

	// Payload is a CBOR-compatible summary of the message fields.
	Payload any `cbor:"3,keyasint,omitempty"`

	// Elapsed is the round trip time (responses only).
	Elapsed *time.Duration `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures link and coordinator lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityLink indicates a device link state change.
	StateEntityLink StateEntity = 0
	// StateEntityCoordinator indicates a provisioning step transition.
	StateEntityCoordinator StateEntity = 1
	// StateEntityScan indicates a scan session state change.
	StateEntityScan StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityLink:
		return "LINK"
	case StateEntityCoordinator:
		return "COORDINATOR"
	case StateEntityScan:
		return "SCAN"
	default:
		return "UNKNOWN"
	}
}

// OutcomeEvent records how a provisioning attempt ended.
type OutcomeEvent struct {
	// Action is "add_gateway" or "update_gateway".
	Action string `cbor:"1,keyasint"`

	// Kind is the outcome variant name.
	Kind string `cbor:"2,keyasint"`

	// Detail is a short variant-specific description.
	Detail string `cbor:"3,keyasint,omitempty"`

	// Duration of the attempt.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Kind is the error classification (e.g. "link", "directory").
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
