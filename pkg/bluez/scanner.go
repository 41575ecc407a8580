package bluez

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// GATT UUIDs of the hotspot provisioning service.
const (
	ServiceUUID = "0fda92b2-44a2-4af2-84f5-fa682baa2b8d"
	RxCharUUID  = "0fda92b2-44a2-4af2-84f5-fa682baa2b8e" // provisioner -> hotspot
	TxCharUUID  = "0fda92b2-44a2-4af2-84f5-fa682baa2b8f" // hotspot -> provisioner
)

// DefaultPollInterval is how often the scanner walks the BlueZ object tree.
const DefaultPollInterval = time.Second

// Config selects the adapter and service.
type Config struct {
	// Adapter is the adapter object path, e.g. "/org/bluez/hci0".
	// Empty selects the first adapter.
	Adapter dbus.ObjectPath

	// ServiceUUID filters discovered devices. Default: ServiceUUID.
	ServiceUUID string

	// PollInterval is the scan poll period. Default: DefaultPollInterval.
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.ServiceUUID == "" {
		c.ServiceUUID = ServiceUUID
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Scanner is a scan.Radio backed by BlueZ discovery.
type Scanner struct {
	bus    Bus
	config Config
	logger zerolog.Logger

	mu      sync.Mutex
	adapter dbus.ObjectPath
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScanner creates a scanner on bus.
func NewScanner(bus Bus, config Config, logger zerolog.Logger) *Scanner {
	return &Scanner{
		bus:    bus,
		config: config.withDefaults(),
		logger: logger,
	}
}

// StartScan implements scan.Radio.
func (s *Scanner) StartScan(ctx context.Context, found func(hotspot.Device), onError func(error)) error {
	adapter, err := resolveAdapter(ctx, s.bus, s.config.Adapter)
	if err != nil {
		return err
	}

	filter := map[string]any{
		"Transport":     "le",
		"UUIDs":         []string{s.config.ServiceUUID},
		"DuplicateData": false,
	}
	if err := s.bus.Call(ctx, adapter, AdapterInterface+".SetDiscoveryFilter", nil, filter); err != nil {
		// Some adapters reject filters; results are filtered below anyway.
		onError(fmt.Errorf("set discovery filter: %w", err))
	}
	if err := s.bus.Call(ctx, adapter, AdapterInterface+".StartDiscovery", nil); err != nil {
		return fmt.Errorf("start discovery: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.adapter = adapter
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.poll(pollCtx, adapter, found, onError, done)
	return nil
}

// StopScan implements scan.Radio.
func (s *Scanner) StopScan() error {
	s.mu.Lock()
	cancel, done, adapter := s.cancel, s.done, s.adapter
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	ctx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := s.bus.Call(ctx, adapter, AdapterInterface+".StopDiscovery", nil); err != nil {
		return fmt.Errorf("stop discovery: %w", err)
	}
	return nil
}

func (s *Scanner) poll(ctx context.Context, adapter dbus.ObjectPath, found func(hotspot.Device), onError func(error), done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		objects, err := managedObjects(ctx, s.bus)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			onError(err)
		}
		for _, d := range matchingDevices(objects, adapter, s.config.ServiceUUID) {
			found(d)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// matchingDevices returns devices under adapter advertising serviceUUID.
func matchingDevices(objects ManagedObjects, adapter dbus.ObjectPath, serviceUUID string) []hotspot.Device {
	prefix := string(adapter) + "/dev_"
	var devices []hotspot.Device

	for path, ifaces := range objects {
		props, ok := ifaces[DeviceInterface]
		if !ok || !strings.HasPrefix(string(path), prefix) {
			continue
		}
		if !advertises(props, serviceUUID) {
			continue
		}

		d := hotspot.Device{
			ID:   stringProp(props, "Address"),
			Name: stringProp(props, "Name"),
		}
		if d.ID == "" {
			continue
		}
		if v, ok := props["RSSI"]; ok {
			if rssi, ok := v.Value().(int16); ok {
				d.RSSI = rssi
			}
		}
		devices = append(devices, d)
	}
	return devices
}

func advertises(props map[string]dbus.Variant, serviceUUID string) bool {
	v, ok := props["UUIDs"]
	if !ok {
		return false
	}
	uuids, _ := v.Value().([]string)
	for _, u := range uuids {
		if strings.EqualFold(u, serviceUUID) {
			return true
		}
	}
	return false
}

func resolveAdapter(ctx context.Context, bus Bus, configured dbus.ObjectPath) (dbus.ObjectPath, error) {
	if configured != "" {
		return configured, nil
	}
	objects, err := managedObjects(ctx, bus)
	if err != nil {
		return "", err
	}
	return findAdapter(objects)
}

// devicePath returns the BlueZ object path for a MAC address.
func devicePath(adapter dbus.ObjectPath, mac string) dbus.ObjectPath {
	return dbus.ObjectPath(string(adapter) + "/dev_" + strings.ReplaceAll(strings.ToUpper(mac), ":", "_"))
}
