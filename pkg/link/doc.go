// Package link implements the hotspot control protocol over any reliable
// byte stream: a BLE GATT channel (pkg/bluez), a TCP connection to a
// simulator (pkg/discovery) or an in-memory pipe in tests.
//
// # Wire Format
//
// Each message is a 4-byte big-endian length prefix followed by a CBOR
// map with integer keys. Keys 1 and 2 are always the message type and the
// request ID; responses echo the request ID of the request they answer.
//
//	{1: msgType, 2: requestID, 3..: fields}
//
// A device that cannot serve a request answers with an Error message. The
// "wait" code means the device is busy and the request may be retried
// later; Client surfaces it as provisioning.ErrDeviceWait.
//
// Client implements provisioning.DeviceLink on top of a Dialer. Agent is
// the device side and dispatches requests to a Handler.
package link
