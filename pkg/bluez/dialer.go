package bluez

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// Dialer defaults.
const (
	// DefaultChunkSize is the largest single characteristic write. It fits
	// the default negotiated ATT MTU on BlueZ.
	DefaultChunkSize = 180

	// DefaultResolveTimeout bounds the wait for GATT service resolution.
	DefaultResolveTimeout = 10 * time.Second
)

// ErrCharacteristicNotFound is returned when a device lacks the link
// characteristics.
var ErrCharacteristicNotFound = errors.New("link characteristics not found")

// DialerConfig configures a Dialer.
type DialerConfig struct {
	Config

	// ChunkSize is the largest single write. Default: DefaultChunkSize.
	ChunkSize int

	// ResolveTimeout bounds service resolution. Default: DefaultResolveTimeout.
	ResolveTimeout time.Duration
}

// Dialer is a link.Dialer over BlueZ GATT.
type Dialer struct {
	bus    Bus
	config DialerConfig
	logger zerolog.Logger
}

// NewDialer creates a dialer on bus.
func NewDialer(bus Bus, config DialerConfig, logger zerolog.Logger) *Dialer {
	config.Config = config.Config.withDefaults()
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.ResolveTimeout <= 0 {
		config.ResolveTimeout = DefaultResolveTimeout
	}
	return &Dialer{bus: bus, config: config, logger: logger}
}

// Dial implements link.Dialer. device.ID is the MAC address reported by
// Scanner.
func (d *Dialer) Dial(ctx context.Context, device hotspot.Device) (io.ReadWriteCloser, error) {
	adapter, err := resolveAdapter(ctx, d.bus, d.config.Adapter)
	if err != nil {
		return nil, err
	}
	path := devicePath(adapter, device.ID)

	if err := d.bus.Call(ctx, path, DeviceInterface+".Connect", nil); err != nil {
		return nil, fmt.Errorf("connect %s: %w", device.ID, err)
	}

	stream, err := d.open(ctx, path)
	if err != nil {
		_ = d.bus.Call(context.Background(), path, DeviceInterface+".Disconnect", nil)
		return nil, err
	}
	d.logger.Debug().Str("device", device.ID).Msg("gatt link open")
	return stream, nil
}

func (d *Dialer) open(ctx context.Context, path dbus.ObjectPath) (*stream, error) {
	if err := d.waitResolved(ctx, path); err != nil {
		return nil, err
	}

	objects, err := managedObjects(ctx, d.bus)
	if err != nil {
		return nil, err
	}
	rx, tx := findCharacteristics(objects, path)
	if rx == "" || tx == "" {
		return nil, fmt.Errorf("%w on %s", ErrCharacteristicNotFound, path)
	}

	signals, unsubscribe, err := d.bus.Subscribe(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := d.bus.Call(ctx, tx, CharacteristicInterface+".StartNotify", nil); err != nil {
		unsubscribe()
		return nil, fmt.Errorf("start notify: %w", err)
	}

	pr, pw := io.Pipe()
	s := &stream{
		bus:         d.bus,
		device:      path,
		rx:          rx,
		tx:          tx,
		chunk:       d.config.ChunkSize,
		reader:      pr,
		unsubscribe: unsubscribe,
	}
	go s.pump(signals, pw)
	return s, nil
}

func (d *Dialer) waitResolved(ctx context.Context, path dbus.ObjectPath) error {
	ctx, cancel := context.WithTimeout(ctx, d.config.ResolveTimeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var resolved dbus.Variant
		err := d.bus.Call(ctx, path, propertiesGet, &resolved, DeviceInterface, "ServicesResolved")
		if err == nil {
			if ok, _ := resolved.Value().(bool); ok {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("services not resolved on %s: %w", path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// findCharacteristics returns the RX and TX characteristic paths under device.
func findCharacteristics(objects ManagedObjects, device dbus.ObjectPath) (rx, tx dbus.ObjectPath) {
	prefix := string(device) + "/"
	for path, ifaces := range objects {
		props, ok := ifaces[CharacteristicInterface]
		if !ok || !strings.HasPrefix(string(path), prefix) {
			continue
		}
		switch strings.ToLower(stringProp(props, "UUID")) {
		case RxCharUUID:
			rx = path
		case TxCharUUID:
			tx = path
		}
	}
	return rx, tx
}

// stream is a byte stream over two GATT characteristics.
type stream struct {
	bus    Bus
	device dbus.ObjectPath
	rx     dbus.ObjectPath
	tx     dbus.ObjectPath
	chunk  int

	reader      *io.PipeReader
	unsubscribe func()

	wmu       sync.Mutex
	closeOnce sync.Once
}

func (s *stream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

// Write sends p in chunks, in order.
func (s *stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	options := map[string]any{"type": "request"}
	written := 0
	for written < len(p) {
		end := min(written+s.chunk, len(p))
		if err := s.bus.Call(context.Background(), s.rx, CharacteristicInterface+".WriteValue", nil, p[written:end], options); err != nil {
			return written, fmt.Errorf("write value: %w", err)
		}
		written = end
	}
	return written, nil
}

func (s *stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_ = s.bus.Call(ctx, s.tx, CharacteristicInterface+".StopNotify", nil)
		s.unsubscribe()
		_ = s.reader.Close()
		err = s.bus.Call(ctx, s.device, DeviceInterface+".Disconnect", nil)
	})
	return err
}

// pump copies TX notifications into the read side until the signal
// channel closes.
func (s *stream) pump(signals <-chan *dbus.Signal, w *io.PipeWriter) {
	defer w.Close()
	for sig := range signals {
		if len(sig.Body) < 2 {
			continue
		}
		iface, _ := sig.Body[0].(string)
		if iface != CharacteristicInterface {
			continue
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			continue
		}
		value, ok := bytesProp(changed, "Value")
		if !ok || len(value) == 0 {
			continue
		}
		if _, err := w.Write(value); err != nil {
			return
		}
	}
}
