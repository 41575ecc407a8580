package bluez

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// BlueZ names.
const (
	BusName = "org.bluez"

	AdapterInterface        = "org.bluez.Adapter1"
	DeviceInterface         = "org.bluez.Device1"
	CharacteristicInterface = "org.bluez.GattCharacteristic1"

	propertiesInterface    = "org.freedesktop.DBus.Properties"
	propertiesChanged      = "PropertiesChanged"
	getManagedObjects      = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
	propertiesGet          = "org.freedesktop.DBus.Properties.Get"
	propertiesChangedEvent = propertiesInterface + "." + propertiesChanged
)

// ManagedObjects is the BlueZ object tree: path -> interface -> property.
type ManagedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Bus is the subset of D-Bus used by this package.
type Bus interface {
	// Call invokes method on the BlueZ object at path and stores the
	// reply in ret when ret is non-nil.
	Call(ctx context.Context, path dbus.ObjectPath, method string, ret any, args ...any) error

	// Subscribe delivers PropertiesChanged signals for path until the
	// returned cancel func is called.
	Subscribe(ctx context.Context, path dbus.ObjectPath) (<-chan *dbus.Signal, func(), error)
}

// SystemBus is a Bus on the system D-Bus connection.
type SystemBus struct {
	conn *dbus.Conn
}

// NewSystemBus connects to the shared system bus.
func NewSystemBus() (*SystemBus, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &SystemBus{conn: conn}, nil
}

// Call implements Bus.
func (b *SystemBus) Call(ctx context.Context, path dbus.ObjectPath, method string, ret any, args ...any) error {
	call := b.conn.Object(BusName, path).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return call.Err
	}
	if ret != nil {
		return call.Store(ret)
	}
	return nil
}

// Subscribe implements Bus.
func (b *SystemBus) Subscribe(ctx context.Context, path dbus.ObjectPath) (<-chan *dbus.Signal, func(), error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember(propertiesChanged),
	}
	if err := b.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return nil, nil, fmt.Errorf("add match for %s: %w", path, err)
	}

	raw := make(chan *dbus.Signal, 64)
	b.conn.Signal(raw)

	out := make(chan *dbus.Signal, 64)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case sig, ok := <-raw:
				if !ok {
					return
				}
				if sig.Path != path || sig.Name != propertiesChangedEvent {
					continue
				}
				select {
				case out <- sig:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		b.conn.RemoveSignal(raw)
		_ = b.conn.RemoveMatchSignal(opts...)
	}
	return out, cancel, nil
}

func managedObjects(ctx context.Context, bus Bus) (ManagedObjects, error) {
	var objects ManagedObjects
	if err := bus.Call(ctx, "/", getManagedObjects, &objects); err != nil {
		return nil, fmt.Errorf("failed to get managed objects: %w", err)
	}
	return objects, nil
}

// findAdapter returns the first adapter in objects.
func findAdapter(objects ManagedObjects) (dbus.ObjectPath, error) {
	var found dbus.ObjectPath
	for path, ifaces := range objects {
		if _, ok := ifaces[AdapterInterface]; ok {
			if found == "" || path < found {
				found = path
			}
		}
	}
	if found == "" {
		return "", fmt.Errorf("bluetooth adapter not found")
	}
	return found, nil
}

func stringProp(props map[string]dbus.Variant, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func bytesProp(props map[string]dbus.Variant, name string) ([]byte, bool) {
	v, ok := props[name]
	if !ok {
		return nil, false
	}
	b, ok := v.Value().([]byte)
	return b, ok
}
