// Package bluez is the Bluetooth LE radio for Linux hosts, driving BlueZ
// over the system D-Bus.
//
// Scanner implements scan.Radio: it filters adapter discovery to the
// hotspot GATT service and reports matching devices by MAC address.
// Dialer implements link.Dialer: it connects to a device, subscribes to
// the TX characteristic and returns a byte stream whose writes go to the
// RX characteristic, so the framed link protocol runs unchanged over GATT.
package bluez
