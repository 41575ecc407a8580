package link

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

func TestEncodeDecode(t *testing.T) {
	msgs := []Message{
		&FirmwareRequest{RequestID: 1, MinVersion: "v1.0.0"},
		&FirmwareReport{RequestID: 1, Version: "v1.2.0", Current: true},
		&NetworksRequest{RequestID: 2, ConnectedOnly: true},
		&NetworksResponse{RequestID: 2, Networks: []string{"home", "home", "office"}},
		&AddressRequest{RequestID: 3},
		&AddressResponse{RequestID: 3, Address: "11abc"},
		&AddGatewayRequest{RequestID: 4, Owner: "owner", Payer: "payer"},
		&AddGatewayResponse{RequestID: 4, Transaction: []byte{1, 2, 3}},
		&ErrorMessage{RequestID: 5, Code: ErrCodeWait, Message: "busy"},
	}

	for _, m := range msgs {
		t.Run(m.Type().String(), func(t *testing.T) {
			data, err := Encode(m)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestEncode_StampsType(t *testing.T) {
	data, err := Encode(&AddressRequest{RequestID: 9})
	require.NoError(t, err)

	var raw map[int]any
	require.NoError(t, cbor.Unmarshal(data, &raw))
	assert.EqualValues(t, MsgAddressRequest, raw[1])
	assert.EqualValues(t, 9, raw[2])
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	data, err := cbor.Marshal(map[int]any{1: 77, 2: 1})
	require.NoError(t, err)
	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestErrorMessage_Err(t *testing.T) {
	wait := (&ErrorMessage{Code: ErrCodeWait}).Err()
	assert.ErrorIs(t, wait, provisioning.ErrDeviceWait)
	assert.False(t, errors.Is(wait, provisioning.ErrLinkFailure))

	internal := (&ErrorMessage{Code: ErrCodeInternal, Message: "boom"}).Err()
	assert.ErrorIs(t, internal, provisioning.ErrLinkFailure)
	assert.Contains(t, internal.Error(), "boom")
}

func TestMsgType_String(t *testing.T) {
	assert.Equal(t, "networks_request", MsgNetworksRequest.String())
	assert.Equal(t, "unknown(42)", MsgType(42).String())
}
