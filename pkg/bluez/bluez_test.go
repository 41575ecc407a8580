package bluez

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

type fakeBus struct {
	mu      sync.Mutex
	objects ManagedObjects
	calls   []string
	writes  [][]byte
	fail    map[string]error

	signals   chan *dbus.Signal
	closeOnce sync.Once
}

func newFakeBus(objects ManagedObjects) *fakeBus {
	return &fakeBus{
		objects: objects,
		fail:    map[string]error{},
		signals: make(chan *dbus.Signal, 8),
	}
}

func (f *fakeBus) Call(_ context.Context, path dbus.ObjectPath, method string, ret any, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, string(path)+" "+method)
	if err, ok := f.fail[method]; ok {
		return err
	}

	switch method {
	case getManagedObjects:
		*ret.(*ManagedObjects) = f.objects
	case propertiesGet:
		*ret.(*dbus.Variant) = dbus.MakeVariant(true)
	case CharacteristicInterface + ".WriteValue":
		f.writes = append(f.writes, append([]byte(nil), args[0].([]byte)...))
	}
	return nil
}

func (f *fakeBus) Subscribe(context.Context, dbus.ObjectPath) (<-chan *dbus.Signal, func(), error) {
	return f.signals, func() { f.closeOnce.Do(func() { close(f.signals) }) }, nil
}

func (f *fakeBus) called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if bytes.HasSuffix([]byte(c), []byte(" "+method)) {
			return true
		}
	}
	return false
}

const adapter = dbus.ObjectPath("/org/bluez/hci0")

func deviceObject(mac, name string, uuids ...string) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		DeviceInterface: {
			"Address": dbus.MakeVariant(mac),
			"Name":    dbus.MakeVariant(name),
			"UUIDs":   dbus.MakeVariant(uuids),
			"RSSI":    dbus.MakeVariant(int16(-60)),
		},
	}
}

func charObject(uuid string) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		CharacteristicInterface: {"UUID": dbus.MakeVariant(uuid)},
	}
}

func testObjects() ManagedObjects {
	dev := devicePath(adapter, "AA:BB:CC:DD:EE:01")
	return ManagedObjects{
		adapter: {AdapterInterface: {}},
		dev:     deviceObject("AA:BB:CC:DD:EE:01", "Nebra Indoor", "0FDA92B2-44A2-4AF2-84F5-FA682BAA2B8D"),
		devicePath(adapter, "AA:BB:CC:DD:EE:02"): deviceObject("AA:BB:CC:DD:EE:02", "Headphones", "0000110b-0000-1000-8000-00805f9b34fb"),
		"/org/bluez/hci1/dev_AA_BB_CC_DD_EE_03":  deviceObject("AA:BB:CC:DD:EE:03", "Other adapter", ServiceUUID),
		dev + "/service0001/char0002":            charObject(RxCharUUID),
		dev + "/service0001/char0003":            charObject(TxCharUUID),
	}
}

func TestMatchingDevices(t *testing.T) {
	got := matchingDevices(testObjects(), adapter, ServiceUUID)
	require.Len(t, got, 1)
	assert.Equal(t, hotspot.Device{ID: "AA:BB:CC:DD:EE:01", Name: "Nebra Indoor", RSSI: -60}, got[0])
}

func TestDevicePath(t *testing.T) {
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_01"), devicePath(adapter, "aa:bb:cc:dd:ee:01"))
}

func TestScanner(t *testing.T) {
	bus := newFakeBus(testObjects())
	bus.fail[AdapterInterface+".SetDiscoveryFilter"] = errors.New("not supported")
	s := NewScanner(bus, Config{PollInterval: 10 * time.Millisecond}, zerolog.Nop())

	var mu sync.Mutex
	var found []hotspot.Device
	var errs []error
	require.NoError(t, s.StartScan(context.Background(), func(d hotspot.Device) {
		mu.Lock()
		found = append(found, d)
		mu.Unlock()
	}, func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(found) >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.StopScan())
	require.NoError(t, s.StopScan())
	assert.True(t, bus.called(AdapterInterface+".StartDiscovery"))
	assert.True(t, bus.called(AdapterInterface+".StopDiscovery"))

	mu.Lock()
	defer mu.Unlock()
	for _, d := range found {
		assert.Equal(t, "AA:BB:CC:DD:EE:01", d.ID)
	}
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "discovery filter")
}

func TestScanner_StartDiscoveryFails(t *testing.T) {
	bus := newFakeBus(testObjects())
	bus.fail[AdapterInterface+".StartDiscovery"] = errors.New("busy")
	s := NewScanner(bus, Config{}, zerolog.Nop())

	err := s.StartScan(context.Background(), func(hotspot.Device) {}, func(error) {})
	assert.Error(t, err)
	assert.NoError(t, s.StopScan())
}

func TestDialer_Stream(t *testing.T) {
	bus := newFakeBus(testObjects())
	d := NewDialer(bus, DialerConfig{}, zerolog.Nop())

	conn, err := d.Dial(context.Background(), hotspot.Device{ID: "AA:BB:CC:DD:EE:01"})
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{7}, 400)
	n, err := conn.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, 400, n)

	bus.mu.Lock()
	require.Len(t, bus.writes, 3)
	assert.Len(t, bus.writes[0], DefaultChunkSize)
	assert.Len(t, bus.writes[2], 400-2*DefaultChunkSize)
	bus.mu.Unlock()

	bus.signals <- &dbus.Signal{
		Name: propertiesChangedEvent,
		Body: []any{CharacteristicInterface, map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte("pong"))}, []string{}},
	}
	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.True(t, bus.called(CharacteristicInterface+".StopNotify"))
	assert.True(t, bus.called(DeviceInterface+".Disconnect"))
}

func TestDialer_MissingCharacteristics(t *testing.T) {
	objects := testObjects()
	for path := range objects {
		if _, ok := objects[path][CharacteristicInterface]; ok {
			delete(objects, path)
		}
	}
	bus := newFakeBus(objects)
	d := NewDialer(bus, DialerConfig{}, zerolog.Nop())

	_, err := d.Dial(context.Background(), hotspot.Device{ID: "AA:BB:CC:DD:EE:01"})
	assert.ErrorIs(t, err, ErrCharacteristicNotFound)
	assert.True(t, bus.called(DeviceInterface+".Disconnect"))
}
