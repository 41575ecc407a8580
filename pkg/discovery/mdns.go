package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
)

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: 120 * time.Second,
	}
}

// Advertiser announces one hotspot over mDNS.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates an mDNS advertiser.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	return &Advertiser{config: config}
}

// Advertise starts (or restarts) advertising info.
func (a *Advertiser) Advertise(ctx context.Context, info *Info) error {
	instance := info.Instance
	if instance == "" {
		instance = info.ID
	}
	if err := ValidateInstanceName(instance); err != nil {
		return err
	}

	txt := EncodeTXT(info)
	if err := ValidateTXT(txt); err != nil {
		return err
	}

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		port,
		TXTRecordsToStrings(txt),
		interfaces(a.config.Interface),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register hotspot service: %w", err)
	}

	a.server = server
	return nil
}

// Update replaces the advertised TXT records.
func (a *Advertiser) Update(info *Info) error {
	txt := EncodeTXT(info)
	if err := ValidateTXT(txt); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotFound
	}
	a.server.SetText(TXTRecordsToStrings(txt))
	return nil
}

// Stop stops advertising. It is a no-op when not advertising.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// LookupTimeout bounds Dial's browse for a device not yet seen.
	// Default: BrowseTimeout.
	LookupTimeout time.Duration

	// DialTimeout bounds each TCP connection attempt.
	DialTimeout time.Duration
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		LookupTimeout: BrowseTimeout,
		DialTimeout:   5 * time.Second,
	}
}

// Browser finds hotspots over mDNS. It implements scan.Radio and
// link.Dialer.
type Browser struct {
	config BrowserConfig
	logger zerolog.Logger

	// browse is replaced in tests.
	browse func(ctx context.Context, entries, removed chan *zeroconf.ServiceEntry) error
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)

	mu       sync.Mutex
	services map[string]*Service
	cancel   context.CancelFunc
}

// NewBrowser creates an mDNS browser.
func NewBrowser(config BrowserConfig, logger zerolog.Logger) *Browser {
	if config.LookupTimeout == 0 {
		config.LookupTimeout = BrowseTimeout
	}
	b := &Browser{
		config:   config,
		logger:   logger,
		services: make(map[string]*Service),
	}
	b.browse = func(ctx context.Context, entries, removed chan *zeroconf.ServiceEntry) error {
		return zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.browserOptions()...)
	}
	nd := &net.Dialer{Timeout: config.DialTimeout}
	b.dial = nd.DialContext
	return b
}

// Browse searches for hotspots until ctx ends. Services are aggregated by
// instance name: addresses from multiple interfaces are combined into one
// entry, and each service is emitted once. Browse failures go to onError,
// which may be nil.
func (b *Browser) Browse(ctx context.Context, onError func(error)) <-chan *Service {
	out := make(chan *Service)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]*Service)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc, err := entryToService(entry)
				if err != nil {
					b.logger.Debug().Err(err).Str("instance", entry.Instance).Msg("ignoring service")
					continue
				}

				if existing, found := seen[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					b.remember(existing)
					continue
				}

				seen[svc.InstanceName] = svc
				b.remember(svc)
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := seen[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(seen, entry.Instance)
						b.forget(entry.Instance)
					} else {
						b.remember(existing)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := b.browse(ctx, entries, removed); err != nil && ctx.Err() == nil && onError != nil {
			onError(fmt.Errorf("mdns browse: %w", err))
		}
	}()

	return out
}

// StartScan implements scan.Radio.
func (b *Browser) StartScan(ctx context.Context, found func(hotspot.Device), onError func(error)) error {
	ctx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = cancel
	b.mu.Unlock()

	results := b.Browse(ctx, onError)
	go func() {
		for svc := range results {
			found(svc.Device())
		}
	}()
	return nil
}

// StopScan implements scan.Radio.
func (b *Browser) StopScan() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	return nil
}

// Lookup returns the last seen service for an instance name.
func (b *Browser) Lookup(instance string) (*Service, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	svc, ok := b.services[instance]
	if !ok {
		return nil, false
	}
	cp := *svc
	cp.Addresses = append([]string(nil), svc.Addresses...)
	return &cp, true
}

// Find browses until the named instance appears or ctx ends.
func (b *Browser) Find(ctx context.Context, instance string) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for svc := range b.Browse(ctx, nil) {
		if svc.InstanceName == instance {
			return svc, nil
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, instance, err)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, instance)
}

// Dial implements link.Dialer. Devices not seen by an earlier scan are
// looked up first.
func (b *Browser) Dial(ctx context.Context, device hotspot.Device) (io.ReadWriteCloser, error) {
	svc, ok := b.Lookup(device.ID)
	if !ok {
		lookupCtx, cancel := context.WithTimeout(ctx, b.config.LookupTimeout)
		defer cancel()

		var err error
		if svc, err = b.Find(lookupCtx, device.ID); err != nil {
			return nil, err
		}
	}

	if len(svc.Addresses) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAddress, svc.InstanceName)
	}

	var errs []error
	for _, addr := range svc.Addresses {
		target := net.JoinHostPort(addr, strconv.Itoa(int(svc.Port)))
		conn, err := b.dial(ctx, "tcp", target)
		if err == nil {
			b.logger.Debug().Str("instance", svc.InstanceName).Str("addr", target).Msg("dialed hotspot")
			return conn, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (b *Browser) remember(svc *Service) {
	cp := *svc
	cp.Addresses = append([]string(nil), svc.Addresses...)

	b.mu.Lock()
	b.services[svc.InstanceName] = &cp
	b.mu.Unlock()
}

func (b *Browser) forget(instance string) {
	b.mu.Lock()
	delete(b.services, instance)
	b.mu.Unlock()
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if ifaces := interfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}
	return opts
}

// Device converts the service to the scan-level device value.
func (s *Service) Device() hotspot.Device {
	return hotspot.Device{
		ID:   s.InstanceName,
		Name: s.Name,
	}
}

// entryToService converts a zeroconf entry to a Service.
func entryToService(entry *zeroconf.ServiceEntry) (*Service, error) {
	info, err := DecodeTXT(StringsToTXTRecords(entry.Text))
	if err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Service{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		ID:           info.ID,
		Name:         info.Name,
		Firmware:     info.Firmware,
	}, nil
}

// interfaces returns the named interface, or nil for all interfaces.
func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range added {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
