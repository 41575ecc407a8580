package link

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// DefaultRequestTimeout bounds a single request/response round trip.
const DefaultRequestTimeout = 10 * time.Second

// Dialer opens a byte stream to a discovered hotspot.
type Dialer interface {
	Dial(ctx context.Context, device hotspot.Device) (io.ReadWriteCloser, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRequestTimeout sets the per-request timeout. Zero disables it.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the operational logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithEventLogger records frames, messages and link state to events.
func WithEventLogger(events plog.Logger) ClientOption {
	return func(c *Client) { c.events = plog.OrNoop(events) }
}

// Client is the provisioner side of the link. It implements
// provisioning.DeviceLink over any Dialer.
type Client struct {
	dialer  Dialer
	timeout time.Duration
	logger  zerolog.Logger
	events  plog.Logger

	// reqMu serializes round trips; mu guards the session fields.
	reqMu sync.Mutex
	mu    sync.Mutex

	conn      io.ReadWriteCloser
	framer    *Framer
	device    hotspot.Device
	sessionID string
	nextID    uint32
}

var _ provisioning.DeviceLink = (*Client)(nil)

// NewClient creates a disconnected client.
func NewClient(dialer Dialer, opts ...ClientOption) *Client {
	c := &Client{
		dialer:  dialer,
		timeout: DefaultRequestTimeout,
		logger:  zerolog.Nop(),
		events:  plog.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConnected reports whether a session is open.
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil, nil
}

// Device returns the connected device, if any.
func (c *Client) Device() (hotspot.Device, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device, c.conn != nil
}

// Connect opens a session to device. Connecting to the device already held
// is a no-op; any other device yields ErrLinkBusy.
func (c *Client) Connect(ctx context.Context, device hotspot.Device) error {
	c.mu.Lock()
	if c.conn != nil {
		held := c.device.ID
		c.mu.Unlock()
		if held == device.ID {
			return nil
		}
		return fmt.Errorf("%w: %w: held by %s", provisioning.ErrLinkFailure, provisioning.ErrLinkBusy, held)
	}
	c.mu.Unlock()

	conn, err := c.dialer.Dial(ctx, device)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", provisioning.ErrLinkFailure, device.ID, err)
	}

	sessionID := uuid.New().String()
	framer := NewFramer(conn)
	framer.SetTrace(c.events, sessionID, plog.RoleProvisioner, device.ID)

	c.mu.Lock()
	if c.conn != nil {
		// Lost a race with a concurrent Connect.
		c.mu.Unlock()
		_ = conn.Close()
		return c.Connect(ctx, device)
	}
	c.conn = conn
	c.framer = framer
	c.device = device
	c.sessionID = sessionID
	c.nextID = 0
	c.mu.Unlock()

	c.logger.Debug().Str("device", device.ID).Str("session", sessionID).Msg("link connected")
	c.logState(sessionID, device.ID, "DISCONNECTED", "CONNECTED", "")
	return nil
}

// Disconnect closes the session. It is a no-op when not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	return c.drop(conn, "disconnect")
}

// drop closes conn if it is still the current session.
func (c *Client) drop(conn io.ReadWriteCloser, reason string) error {
	c.mu.Lock()
	if conn == nil || c.conn != conn {
		c.mu.Unlock()
		return nil
	}
	sessionID := c.sessionID
	deviceID := c.device.ID
	c.conn = nil
	c.framer = nil
	c.device = hotspot.Device{}
	c.mu.Unlock()

	c.logger.Debug().Str("device", deviceID).Str("reason", reason).Msg("link closed")
	c.logState(sessionID, deviceID, "CONNECTED", "DISCONNECTED", reason)
	if err := conn.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", provisioning.ErrLinkFailure, err)
	}
	return nil
}

// GetFirmwareReport implements provisioning.DeviceLink.
func (c *Client) GetFirmwareReport(ctx context.Context, minVersion string) (hotspot.FirmwareInfo, error) {
	resp, err := c.request(ctx, &FirmwareRequest{MinVersion: minVersion})
	if err != nil {
		return hotspot.FirmwareInfo{}, err
	}
	r, ok := resp.(*FirmwareReport)
	if !ok {
		return hotspot.FirmwareInfo{}, unexpected(MsgFirmwareReport, resp)
	}
	return hotspot.FirmwareInfo{DeviceVersion: r.Version, Current: r.Current}, nil
}

// ListNetworks implements provisioning.DeviceLink.
func (c *Client) ListNetworks(ctx context.Context, connectedOnly bool) ([]string, error) {
	resp, err := c.request(ctx, &NetworksRequest{ConnectedOnly: connectedOnly})
	if err != nil {
		return nil, err
	}
	r, ok := resp.(*NetworksResponse)
	if !ok {
		return nil, unexpected(MsgNetworksResponse, resp)
	}
	return r.Networks, nil
}

// ResolveDeviceAddress implements provisioning.DeviceLink.
func (c *Client) ResolveDeviceAddress(ctx context.Context) (string, error) {
	resp, err := c.request(ctx, &AddressRequest{})
	if err != nil {
		return "", err
	}
	r, ok := resp.(*AddressResponse)
	if !ok {
		return "", unexpected(MsgAddressResponse, resp)
	}
	c.mu.Lock()
	if c.conn != nil {
		c.device.Address = r.Address
	}
	c.mu.Unlock()
	return r.Address, nil
}

// CreateSignedGatewayPayload implements provisioning.DeviceLink.
func (c *Client) CreateSignedGatewayPayload(ctx context.Context, owner, payer string) ([]byte, error) {
	resp, err := c.request(ctx, &AddGatewayRequest{Owner: owner, Payer: payer})
	if err != nil {
		return nil, err
	}
	r, ok := resp.(*AddGatewayResponse)
	if !ok {
		return nil, unexpected(MsgAddGatewayResponse, resp)
	}
	return r.Transaction, nil
}

// request sends req and waits for the response with the same request ID.
// A transport error or cancellation closes the session, since the stream
// position is lost.
func (c *Client) request(ctx context.Context, req Message) (Message, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	c.mu.Lock()
	framer := c.framer
	conn := c.conn
	sessionID := c.sessionID
	deviceID := c.device.ID
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	if framer == nil {
		return nil, fmt.Errorf("%w: %w", provisioning.ErrLinkFailure, provisioning.ErrNotConnected)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req.setID(id)
	data, err := Encode(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", provisioning.ErrLinkFailure, req.Type(), err)
	}

	start := time.Now()
	if err := framer.WriteFrame(data); err != nil {
		_ = c.drop(conn, "write failed")
		return nil, fmt.Errorf("%w: %w", provisioning.ErrLinkFailure, err)
	}
	c.logMessage(sessionID, deviceID, plog.DirectionOut, req, nil)

	for {
		resp, err := readMessageWithContext(ctx, framer, conn)
		if err != nil {
			_ = c.drop(conn, err.Error())
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %s: %w", provisioning.ErrLinkFailure, req.Type(), ctxErr)
			}
			return nil, fmt.Errorf("%w: %s: %w", provisioning.ErrLinkFailure, req.Type(), err)
		}

		elapsed := time.Since(start)
		c.logMessage(sessionID, deviceID, plog.DirectionIn, resp, &elapsed)

		if resp.ID() != id {
			c.logger.Debug().Uint32("want", id).Uint32("got", resp.ID()).Msg("dropping stale response")
			continue
		}
		if e, ok := resp.(*ErrorMessage); ok {
			return nil, e.Err()
		}
		return resp, nil
	}
}

// readMessageWithContext reads one message, closing conn if ctx ends first
// so the pending read returns.
func readMessageWithContext(ctx context.Context, framer *Framer, conn io.Closer) (Message, error) {
	type result struct {
		msg Message
		err error
	}
	resultCh := make(chan result, 1)

	go func() {
		data, err := framer.ReadFrame()
		if err != nil {
			resultCh <- result{nil, err}
			return
		}
		msg, err := Decode(data)
		resultCh <- result{msg, err}
	}()

	select {
	case <-ctx.Done():
		_ = conn.Close()
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.msg, r.err
	}
}

func unexpected(want MsgType, got Message) error {
	return fmt.Errorf("%w: %w: expected %s, got %s", provisioning.ErrLinkFailure, ErrInvalidMessage, want, got.Type())
}

func (c *Client) logMessage(sessionID, deviceID string, dir plog.Direction, msg Message, elapsed *time.Duration) {
	c.events.Log(plog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: dir,
		Layer:     plog.LayerMessage,
		Category:  plog.CategoryMessage,
		LocalRole: plog.RoleProvisioner,
		DeviceID:  deviceID,
		Message: &plog.MessageEvent{
			Type:      msg.Type().String(),
			RequestID: msg.ID(),
			Payload:   msg,
			Elapsed:   elapsed,
		},
	})
}

func (c *Client) logState(sessionID, deviceID, from, to, reason string) {
	c.events.Log(plog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Layer:     plog.LayerMessage,
		Category:  plog.CategoryState,
		LocalRole: plog.RoleProvisioner,
		DeviceID:  deviceID,
		StateChange: &plog.StateChangeEvent{
			Entity:   plog.StateEntityLink,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}
