package link

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// MsgType identifies a link message.
type MsgType uint8

// Link message types.
const (
	// MsgFirmwareRequest asks for the firmware version and currency verdict.
	MsgFirmwareRequest MsgType = 1

	// MsgFirmwareReport answers MsgFirmwareRequest.
	MsgFirmwareReport MsgType = 2

	// MsgNetworksRequest asks for visible or joined network names.
	MsgNetworksRequest MsgType = 3

	// MsgNetworksResponse answers MsgNetworksRequest.
	MsgNetworksResponse MsgType = 4

	// MsgAddressRequest asks for the device's durable address.
	MsgAddressRequest MsgType = 5

	// MsgAddressResponse answers MsgAddressRequest.
	MsgAddressResponse MsgType = 6

	// MsgAddGatewayRequest asks the device to sign an add-gateway transaction.
	MsgAddGatewayRequest MsgType = 7

	// MsgAddGatewayResponse carries the signed transaction.
	MsgAddGatewayResponse MsgType = 8

	// MsgError answers any request the device could not serve.
	MsgError MsgType = 255
)

// String returns the message type name used in traces.
func (t MsgType) String() string {
	switch t {
	case MsgFirmwareRequest:
		return "firmware_request"
	case MsgFirmwareReport:
		return "firmware_report"
	case MsgNetworksRequest:
		return "networks_request"
	case MsgNetworksResponse:
		return "networks_response"
	case MsgAddressRequest:
		return "address_request"
	case MsgAddressResponse:
		return "address_response"
	case MsgAddGatewayRequest:
		return "add_gateway_request"
	case MsgAddGatewayResponse:
		return "add_gateway_response"
	case MsgError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Error codes carried by MsgError.
const (
	ErrCodeInternal   uint8 = 0
	ErrCodeWait       uint8 = 1
	ErrCodeBadRequest uint8 = 2
	ErrCodeNotReady   uint8 = 3
)

// ErrInvalidMessage is returned for frames that do not decode.
var ErrInvalidMessage = errors.New("invalid link message")

// Message is implemented by every link message.
type Message interface {
	Type() MsgType
	ID() uint32
	setID(uint32)
}

// FirmwareRequest asks for the firmware report.
// CBOR: { 1: msgType, 2: requestID, 3: minVersion }
type FirmwareRequest struct {
	MsgType    MsgType `cbor:"1,keyasint"`
	RequestID  uint32  `cbor:"2,keyasint"`
	MinVersion string  `cbor:"3,keyasint,omitempty"`
}

// FirmwareReport carries the device firmware.
// CBOR: { 1: msgType, 2: requestID, 3: version, 4: current }
type FirmwareReport struct {
	MsgType   MsgType `cbor:"1,keyasint"`
	RequestID uint32  `cbor:"2,keyasint"`
	Version   string  `cbor:"3,keyasint"`
	Current   bool    `cbor:"4,keyasint"`
}

// NetworksRequest asks for network names.
// CBOR: { 1: msgType, 2: requestID, 3: connectedOnly }
type NetworksRequest struct {
	MsgType       MsgType `cbor:"1,keyasint"`
	RequestID     uint32  `cbor:"2,keyasint"`
	ConnectedOnly bool    `cbor:"3,keyasint,omitempty"`
}

// NetworksResponse lists network names.
// CBOR: { 1: msgType, 2: requestID, 3: networks }
type NetworksResponse struct {
	MsgType   MsgType  `cbor:"1,keyasint"`
	RequestID uint32   `cbor:"2,keyasint"`
	Networks  []string `cbor:"3,keyasint"`
}

// AddressRequest asks for the device address.
// CBOR: { 1: msgType, 2: requestID }
type AddressRequest struct {
	MsgType   MsgType `cbor:"1,keyasint"`
	RequestID uint32  `cbor:"2,keyasint"`
}

// AddressResponse carries the device address.
// CBOR: { 1: msgType, 2: requestID, 3: address }
type AddressResponse struct {
	MsgType   MsgType `cbor:"1,keyasint"`
	RequestID uint32  `cbor:"2,keyasint"`
	Address   string  `cbor:"3,keyasint"`
}

// AddGatewayRequest asks the device to sign an add-gateway transaction.
// CBOR: { 1: msgType, 2: requestID, 3: owner, 4: payer }
type AddGatewayRequest struct {
	MsgType   MsgType `cbor:"1,keyasint"`
	RequestID uint32  `cbor:"2,keyasint"`
	Owner     string  `cbor:"3,keyasint"`
	Payer     string  `cbor:"4,keyasint"`
}

// AddGatewayResponse carries the signed transaction.
// CBOR: { 1: msgType, 2: requestID, 3: transaction }
type AddGatewayResponse struct {
	MsgType     MsgType `cbor:"1,keyasint"`
	RequestID   uint32  `cbor:"2,keyasint"`
	Transaction []byte  `cbor:"3,keyasint"`
}

// ErrorMessage reports a failed request.
// CBOR: { 1: msgType, 2: requestID, 3: code, 4: message }
type ErrorMessage struct {
	MsgType   MsgType `cbor:"1,keyasint"`
	RequestID uint32  `cbor:"2,keyasint"`
	Code      uint8   `cbor:"3,keyasint"`
	Message   string  `cbor:"4,keyasint,omitempty"`
}

func (m *FirmwareRequest) Type() MsgType    { return MsgFirmwareRequest }
func (m *FirmwareReport) Type() MsgType     { return MsgFirmwareReport }
func (m *NetworksRequest) Type() MsgType    { return MsgNetworksRequest }
func (m *NetworksResponse) Type() MsgType   { return MsgNetworksResponse }
func (m *AddressRequest) Type() MsgType     { return MsgAddressRequest }
func (m *AddressResponse) Type() MsgType    { return MsgAddressResponse }
func (m *AddGatewayRequest) Type() MsgType  { return MsgAddGatewayRequest }
func (m *AddGatewayResponse) Type() MsgType { return MsgAddGatewayResponse }
func (m *ErrorMessage) Type() MsgType       { return MsgError }

func (m *FirmwareRequest) ID() uint32    { return m.RequestID }
func (m *FirmwareReport) ID() uint32     { return m.RequestID }
func (m *NetworksRequest) ID() uint32    { return m.RequestID }
func (m *NetworksResponse) ID() uint32   { return m.RequestID }
func (m *AddressRequest) ID() uint32     { return m.RequestID }
func (m *AddressResponse) ID() uint32    { return m.RequestID }
func (m *AddGatewayRequest) ID() uint32  { return m.RequestID }
func (m *AddGatewayResponse) ID() uint32 { return m.RequestID }
func (m *ErrorMessage) ID() uint32       { return m.RequestID }

func (m *FirmwareRequest) setID(id uint32)    { m.RequestID = id }
func (m *FirmwareReport) setID(id uint32)     { m.RequestID = id }
func (m *NetworksRequest) setID(id uint32)    { m.RequestID = id }
func (m *NetworksResponse) setID(id uint32)   { m.RequestID = id }
func (m *AddressRequest) setID(id uint32)     { m.RequestID = id }
func (m *AddressResponse) setID(id uint32)    { m.RequestID = id }
func (m *AddGatewayRequest) setID(id uint32)  { m.RequestID = id }
func (m *AddGatewayResponse) setID(id uint32) { m.RequestID = id }
func (m *ErrorMessage) setID(id uint32)       { m.RequestID = id }

// Err converts the message to the matching provisioning error.
func (m *ErrorMessage) Err() error {
	if m.Code == ErrCodeWait {
		if m.Message == "" {
			return provisioning.ErrDeviceWait
		}
		return fmt.Errorf("%w: %s", provisioning.ErrDeviceWait, m.Message)
	}
	return fmt.Errorf("%w: device error %d: %s", provisioning.ErrLinkFailure, m.Code, m.Message)
}

// Encode stamps the message type and encodes msg to CBOR.
func Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case *FirmwareRequest:
		m.MsgType = MsgFirmwareRequest
	case *FirmwareReport:
		m.MsgType = MsgFirmwareReport
	case *NetworksRequest:
		m.MsgType = MsgNetworksRequest
	case *NetworksResponse:
		m.MsgType = MsgNetworksResponse
	case *AddressRequest:
		m.MsgType = MsgAddressRequest
	case *AddressResponse:
		m.MsgType = MsgAddressResponse
	case *AddGatewayRequest:
		m.MsgType = MsgAddGatewayRequest
	case *AddGatewayResponse:
		m.MsgType = MsgAddGatewayResponse
	case *ErrorMessage:
		m.MsgType = MsgError
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidMessage, msg)
	}
	return encMode.Marshal(msg)
}

// Decode decodes a CBOR body to the message type named in key 1.
func Decode(data []byte) (Message, error) {
	var header struct {
		MsgType MsgType `cbor:"1,keyasint"`
	}
	if err := cbor.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var msg Message
	switch header.MsgType {
	case MsgFirmwareRequest:
		msg = &FirmwareRequest{}
	case MsgFirmwareReport:
		msg = &FirmwareReport{}
	case MsgNetworksRequest:
		msg = &NetworksRequest{}
	case MsgNetworksResponse:
		msg = &NetworksResponse{}
	case MsgAddressRequest:
		msg = &AddressRequest{}
	case MsgAddressResponse:
		msg = &AddressResponse{}
	case MsgAddGatewayRequest:
		msg = &AddGatewayRequest{}
	case MsgAddGatewayResponse:
		msg = &AddGatewayResponse{}
	case MsgError:
		msg = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("%w: unknown message type %d", ErrInvalidMessage, header.MsgType)
	}

	if err := cbor.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return msg, nil
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("link: cbor encoder mode: %v", err))
	}
}
