package provisioning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/address"
	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
	"github.com/NebraLtd/maker-starter-app/pkg/version"
	"github.com/NebraLtd/maker-starter-app/pkg/walletlink"
)

// Coordinator runs provisioning attempts against one DeviceLink. It is safe
// for concurrent use but runs one attempt at a time.
type Coordinator struct {
	link   DeviceLink
	dir    DirectoryClient
	creds  CredentialStore
	cfg    Config
	logger zerolog.Logger
	events plog.Logger
	now    func() time.Time

	baseline version.Version

	mu          sync.Mutex
	running     bool
	state       State
	connectedID string
	lastAddress string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the operational logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithEventLogger sets the trace logger.
func WithEventLogger(l plog.Logger) Option {
	return func(c *Coordinator) { c.events = plog.OrNoop(l) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a coordinator. Zero config fields take defaults.
func NewCoordinator(link DeviceLink, dir DirectoryClient, creds CredentialStore, cfg Config, opts ...Option) (*Coordinator, error) {
	if link == nil || dir == nil || creds == nil {
		return nil, fmt.Errorf("%w: link, directory and credential store are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	c := &Coordinator{
		link:     link,
		dir:      dir,
		creds:    creds,
		cfg:      cfg,
		logger:   zerolog.Nop(),
		events:   plog.NoopLogger{},
		now:      time.Now,
		baseline: version.MustParse(cfg.LegacyBaseline),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current step.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConnectedDevice returns the ID of the device the coordinator connected
// to, if any.
func (c *Coordinator) ConnectedDevice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectedID
}

// DeviceAddress returns the address resolved by the last attempt.
func (c *Coordinator) DeviceAddress() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAddress
}

// BeginAddGateway runs the full pipeline for device.
func (c *Coordinator) BeginAddGateway(ctx context.Context, device hotspot.Device) Outcome {
	return c.run(ctx, device, ActionAddGateway)
}

// BeginUpdateGateway runs up to NetworkDiscovery and returns
// ReadyForLocation. It never requests a signed payload.
func (c *Coordinator) BeginUpdateGateway(ctx context.Context, device hotspot.Device) Outcome {
	return c.run(ctx, device, ActionUpdateGateway)
}

// RescanNetworks re-reads both network lists over the open link.
func (c *Coordinator) RescanNetworks(ctx context.Context) (networks, connected []string, err error) {
	if !c.acquire() {
		return nil, nil, newStepError(c.State(), ErrorKindBusy, ErrAttemptInProgress)
	}
	defer c.release(false)

	ok, err := c.link.IsConnected(ctx)
	if err != nil {
		return nil, nil, newStepError(StateNetworkDiscovery, ErrorKindLink, err)
	}
	if !ok {
		return nil, nil, newStepError(StateNetworkDiscovery, ErrorKindLink, ErrNotConnected)
	}

	all, err := c.link.ListNetworks(ctx, false)
	if err != nil {
		return nil, nil, newStepError(StateNetworkDiscovery, ErrorKindLink, err)
	}
	joined, err := c.link.ListNetworks(ctx, true)
	if err != nil {
		return nil, nil, newStepError(StateNetworkDiscovery, ErrorKindLink, err)
	}
	return dedupe(all), dedupe(joined), nil
}

// Release disconnects the link and forgets the connected device.
func (c *Coordinator) Release() error {
	if !c.acquire() {
		return ErrAttemptInProgress
	}
	defer c.release(false)

	c.mu.Lock()
	c.connectedID = ""
	c.lastAddress = ""
	c.mu.Unlock()

	if err := c.link.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// attempt is the in-flight state of one run. None of it outlives the run.
type attempt struct {
	id        string
	action    Action
	device    hotspot.Device
	networks  []string
	connected []string
	address   string
	record    *hotspot.OnboardingRecord
	payer     string
	caller    string
}

func (c *Coordinator) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	return true
}

func (c *Coordinator) release(terminal bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	if terminal {
		c.state = StateTerminal
	}
}

func (c *Coordinator) run(ctx context.Context, device hotspot.Device, action Action) Outcome {
	if !c.acquire() {
		return Failed{Err: newStepError(c.State(), ErrorKindBusy, ErrAttemptInProgress)}
	}

	a := &attempt{
		id:     uuid.NewString(),
		action: action,
		device: device,
	}
	logger := c.logger.With().
		Str("attempt", a.id).
		Str("action", action.String()).
		Str("device_id", device.ID).
		Logger()

	start := c.now()
	logger.Info().Msg("provisioning started")

	out := c.drive(ctx, a, &logger)

	c.transition(a, StateTerminal, out.Kind().String())
	c.release(true)

	elapsed := c.now().Sub(start)
	var ev *zerolog.Event
	if f, ok := out.(Failed); ok {
		ev = logger.Warn().Err(f.Err)
		c.emitError(a, f.Err)
	} else {
		ev = logger.Info()
	}
	ev.Str("outcome", out.Kind().String()).
		Str("detail", Describe(out)).
		Dur("elapsed", elapsed).
		Msg("provisioning finished")

	c.events.Log(plog.Event{
		Timestamp:     c.now(),
		SessionID:     a.id,
		Layer:         plog.LayerCoordinator,
		Category:      plog.CategoryOutcome,
		LocalRole:     plog.RoleProvisioner,
		DeviceID:      device.ID,
		DeviceAddress: a.address,
		Outcome: &plog.OutcomeEvent{
			Action:   action.String(),
			Kind:     out.Kind().String(),
			Detail:   Describe(out),
			Duration: elapsed,
		},
	})
	return out
}

func (c *Coordinator) drive(ctx context.Context, a *attempt, logger *zerolog.Logger) Outcome {
	if err := c.connect(ctx, a, logger); err != nil {
		return Failed{Err: err}
	}

	if out := c.checkFirmware(ctx, a, logger); out != nil {
		return out
	}

	if out := c.discoverNetworks(ctx, a, logger); out != nil {
		return out
	}

	if a.action == ActionUpdateGateway {
		return ReadyForLocation{
			Networks:          a.networks,
			ConnectedNetworks: a.connected,
			DeviceAddress:     a.address,
			Transaction:       []byte{},
		}
	}

	if out := c.resolveOwnership(ctx, a, logger); out != nil {
		return out
	}

	return c.createTransaction(ctx, a, logger)
}

// connect reuses an open link to the same device and refuses one held by
// another device.
func (c *Coordinator) connect(ctx context.Context, a *attempt, logger *zerolog.Logger) error {
	c.transition(a, StateConnecting, "")
	if err := ctx.Err(); err != nil {
		return newStepError(StateConnecting, ErrorKindCanceled, err)
	}

	ok, err := c.link.IsConnected(ctx)
	if err != nil {
		return newStepError(StateConnecting, ErrorKindLink, err)
	}

	c.mu.Lock()
	current := c.connectedID
	c.mu.Unlock()

	switch {
	case ok && current == a.device.ID:
		logger.Debug().Msg("reusing open link")
	case ok && current != "":
		return newStepError(StateConnecting, ErrorKindLink,
			fmt.Errorf("%w: connected to %s", ErrLinkBusy, current))
	default:
		// An open link this coordinator did not record is left to Connect,
		// which refuses any device but the one it holds.
		if err := c.link.Connect(ctx, a.device); err != nil {
			return newStepError(StateConnecting, ErrorKindLink, err)
		}
		logger.Debug().Bool("was_open", ok).Msg("link connected")
	}

	c.mu.Lock()
	c.connectedID = a.device.ID
	c.mu.Unlock()
	return nil
}

// checkFirmware returns NeedsFirmwareUpdate before any discovery call when
// the device is neither reported current nor at or above the baseline.
func (c *Coordinator) checkFirmware(ctx context.Context, a *attempt, logger *zerolog.Logger) Outcome {
	c.transition(a, StateFirmwareCheck, "")
	if err := ctx.Err(); err != nil {
		return Failed{Err: newStepError(StateFirmwareCheck, ErrorKindCanceled, err)}
	}

	minimum, ok, err := c.dir.GetMinimumFirmware(ctx)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("minimum firmware lookup failed, assuming no requirement")
		minimum = ""
	case !ok:
		logger.Debug().Msg("directory has no minimum firmware")
		minimum = ""
	}

	info, err := c.link.GetFirmwareReport(ctx, minimum)
	if err != nil {
		return Failed{Err: newStepError(StateFirmwareCheck, ErrorKindLink, err)}
	}

	if c.firmwareAcceptable(info, logger) {
		logger.Debug().
			Str("firmware", info.DeviceVersion).
			Bool("reported_current", info.Current).
			Msg("firmware accepted")
		return nil
	}

	logger.Info().
		Str("firmware", info.DeviceVersion).
		Str("minimum", minimum).
		Msg("firmware update required")
	return NeedsFirmwareUpdate{Firmware: info, Minimum: minimum}
}

func (c *Coordinator) firmwareAcceptable(info hotspot.FirmwareInfo, logger *zerolog.Logger) bool {
	if info.Current {
		return true
	}
	v, err := version.Parse(info.DeviceVersion)
	if err != nil {
		logger.Warn().Err(err).Str("firmware", info.DeviceVersion).Msg("unparseable device firmware version")
		return false
	}
	return v.AtLeast(c.baseline)
}

func (c *Coordinator) discoverNetworks(ctx context.Context, a *attempt, logger *zerolog.Logger) Outcome {
	c.transition(a, StateNetworkDiscovery, "")
	if err := ctx.Err(); err != nil {
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindCanceled, err)}
	}

	all, err := c.link.ListNetworks(ctx, false)
	if err != nil {
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindLink, err)}
	}
	joined, err := c.link.ListNetworks(ctx, true)
	if err != nil {
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindLink, err)}
	}
	a.networks = dedupe(all)
	a.connected = dedupe(joined)

	addr, err := c.link.ResolveDeviceAddress(ctx)
	if err != nil {
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindLink, err)}
	}
	if addr == "" {
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindLink,
			fmt.Errorf("%w: device returned an empty address", ErrLinkFailure))}
	}
	a.address = addr
	c.mu.Lock()
	c.lastAddress = addr
	c.mu.Unlock()
	logger.Debug().
		Str("device_address", addr).
		Int("networks", len(a.networks)).
		Int("connected", len(a.connected)).
		Msg("networks discovered")

	// A failed lookup is treated like an absent record; only a missing
	// payer ends the attempt.
	rec, err := c.dir.GetOnboardingRecord(ctx, addr)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("device_address", addr).Msg("onboarding record lookup failed")
		rec = nil
	case rec == nil:
		logger.Info().Str("device_address", addr).Msg("hotspot not found in onboarding directory")
	}
	a.record = rec

	a.payer = ResolvePayer(rec, c.cfg.FallbackPayer)
	if a.payer == "" {
		cause := ErrNoPayer
		if err != nil {
			cause = fmt.Errorf("%w (onboarding lookup: %v)", ErrNoPayer, err)
		}
		return Failed{Err: newStepError(StateNetworkDiscovery, ErrorKindNoPayer, cause)}
	}
	return nil
}

func (c *Coordinator) resolveOwnership(ctx context.Context, a *attempt, logger *zerolog.Logger) Outcome {
	c.transition(a, StateOwnershipResolution, "")
	if err := ctx.Err(); err != nil {
		return Failed{Err: newStepError(StateOwnershipResolution, ErrorKindCanceled, err)}
	}

	caller, err := c.callerAddress(ctx)
	if err != nil {
		return Failed{Err: newStepError(StateOwnershipResolution, ErrorKindCredential, err)}
	}
	a.caller = caller

	maker := ""
	if a.record != nil {
		maker = a.record.MakerAddress
	}
	deviceType := c.cfg.DeviceTypeFor(maker)

	details, err := c.dir.GetDeviceOwnershipDetails(ctx, a.address, deviceType)
	if err != nil {
		if !errors.Is(err, ErrDirectoryUnavailable) {
			err = fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
		}
		return Failed{Err: newStepError(StateOwnershipResolution, ErrorKindDirectory, err)}
	}
	if details == nil || details.Owner == "" {
		logger.Debug().Str("device_type", deviceType).Msg("hotspot not registered")
		return nil
	}

	if match, encoding := ownerMatches(details.Owner, caller); match {
		logger.Info().Str("encoding", encoding).Msg("hotspot already owned by caller")
		return AlreadyOwnedByCaller{Reason: ReasonRegistered, DeviceAddress: a.address}
	}

	logger.Info().Str("owner", details.Owner).Msg("hotspot owned by another account")
	return OwnedByOther{Owner: details.Owner, DeviceAddress: a.address}
}

// callerAddress prefers the stored owner address and falls back to the
// address inside the wallet-link token.
func (c *Coordinator) callerAddress(ctx context.Context) (string, error) {
	addr, ok, err := c.creds.OwnerAddress(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: read owner address: %w", ErrMalformedCredential, err)
	}
	if ok && addr != "" {
		return addr, nil
	}
	tok, err := c.readToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.Address, nil
}

func (c *Coordinator) readToken(ctx context.Context) (walletlink.Token, error) {
	raw, ok, err := c.creds.WalletLinkToken(ctx)
	if err != nil {
		return walletlink.Token{}, fmt.Errorf("%w: read token: %w", ErrMalformedCredential, err)
	}
	if !ok || raw == "" {
		return walletlink.Token{}, fmt.Errorf("%w: no wallet link token", ErrMalformedCredential)
	}
	tok, err := walletlink.Decode(raw)
	if err != nil {
		return walletlink.Token{}, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}
	if c.cfg.VerifyWalletLink {
		if err := walletlink.Verify(tok); err != nil {
			return walletlink.Token{}, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
		}
	}
	return tok, nil
}

func (c *Coordinator) createTransaction(ctx context.Context, a *attempt, logger *zerolog.Logger) Outcome {
	c.transition(a, StateTransactionCreation, "")
	if err := ctx.Err(); err != nil {
		return Failed{Err: newStepError(StateTransactionCreation, ErrorKindCanceled, err)}
	}

	tok, err := c.readToken(ctx)
	if err != nil {
		return Failed{Err: newStepError(StateTransactionCreation, ErrorKindCredential, err)}
	}
	// Ownership was checked against the stored owner; the payload must name
	// the same account.
	if a.caller != "" && !address.SameAccount(a.caller, tok.Address) {
		err := fmt.Errorf("%w: stored owner %s does not match wallet link %s",
			ErrMalformedCredential, a.caller, tok.Address)
		return Failed{Err: newStepError(StateTransactionCreation, ErrorKindCredential, err)}
	}

	payload, err := c.link.CreateSignedGatewayPayload(ctx, tok.Address, a.payer)
	if err != nil {
		return Failed{Err: newStepError(StateTransactionCreation, ErrorKindLink, err)}
	}

	if IsPlaceholderPayload(payload, c.cfg.MinPayloadLength) {
		logger.Info().
			Int("payload_len", len(payload)).
			Int("min_len", c.cfg.MinPayloadLength).
			Msg("device returned placeholder payload, treating as already owned")
		return AlreadyOwnedByCaller{Reason: ReasonPlaceholderPayload, DeviceAddress: a.address}
	}

	return ReadyForWifi{
		Networks:          a.networks,
		ConnectedNetworks: a.connected,
		DeviceAddress:     a.address,
		Payer:             a.payer,
		Transaction:       payload,
	}
}

func (c *Coordinator) transition(a *attempt, next State, reason string) {
	c.mu.Lock()
	prev := c.state
	c.state = next
	c.mu.Unlock()

	c.events.Log(plog.Event{
		Timestamp:     c.now(),
		SessionID:     a.id,
		Layer:         plog.LayerCoordinator,
		Category:      plog.CategoryState,
		LocalRole:     plog.RoleProvisioner,
		DeviceID:      a.device.ID,
		DeviceAddress: a.address,
		StateChange: &plog.StateChangeEvent{
			Entity:   plog.StateEntityCoordinator,
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

func (c *Coordinator) emitError(a *attempt, err error) {
	data := &plog.ErrorEventData{
		Layer:   plog.LayerCoordinator,
		Message: err.Error(),
	}
	var se *StepError
	if errors.As(err, &se) {
		data.Kind = se.Kind.String()
		data.Context = se.State.String()
	}
	c.events.Log(plog.Event{
		Timestamp:     c.now(),
		SessionID:     a.id,
		Layer:         plog.LayerCoordinator,
		Category:      plog.CategoryError,
		LocalRole:     plog.RoleProvisioner,
		DeviceID:      a.device.ID,
		DeviceAddress: a.address,
		Error:         data,
	})
}
