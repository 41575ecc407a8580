package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// Handler answers link requests on the hotspot side.
//
// Returning an error wrapping provisioning.ErrDeviceWait sends the wait
// code; any other error is reported as an internal error.
type Handler interface {
	FirmwareReport(ctx context.Context, minVersion string) (version string, current bool, err error)
	Networks(ctx context.Context, connectedOnly bool) ([]string, error)
	Address(ctx context.Context) (string, error)
	AddGateway(ctx context.Context, owner, payer string) ([]byte, error)
}

// ErrAgentBusy is returned by Serve while another connection is served.
var ErrAgentBusy = errors.New("agent already serving a connection")

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithAgentLogger sets the operational logger.
func WithAgentLogger(l zerolog.Logger) AgentOption {
	return func(a *Agent) { a.logger = l }
}

// WithAgentEventLogger records served frames and messages to events.
func WithAgentEventLogger(events plog.Logger) AgentOption {
	return func(a *Agent) { a.events = plog.OrNoop(events) }
}

// WithDeviceID sets the radio handle recorded in traces.
func WithDeviceID(id string) AgentOption {
	return func(a *Agent) { a.deviceID = id }
}

// Agent is the hotspot side of the link. Like a BLE peripheral it serves
// one provisioner at a time.
type Agent struct {
	handler  Handler
	logger   zerolog.Logger
	events   plog.Logger
	deviceID string

	mu      sync.Mutex
	serving bool
}

// NewAgent creates an agent dispatching to handler.
func NewAgent(handler Handler, opts ...AgentOption) *Agent {
	a := &Agent{
		handler: handler,
		logger:  zerolog.Nop(),
		events:  plog.NoopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Serve handles requests on conn until the peer disconnects or ctx ends.
// conn is closed on return.
func (a *Agent) Serve(ctx context.Context, conn io.ReadWriteCloser) error {
	a.mu.Lock()
	if a.serving {
		a.mu.Unlock()
		_ = conn.Close()
		return ErrAgentBusy
	}
	a.serving = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.serving = false
		a.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	sessionID := uuid.New().String()
	framer := NewFramer(conn)
	framer.SetTrace(a.events, sessionID, plog.RoleHotspot, a.deviceID)
	log := a.logger.With().Str("session", sessionID).Logger()
	log.Debug().Msg("provisioner connected")

	for {
		data, err := framer.ReadFrame()
		if err != nil {
			if isClosed(err) || ctx.Err() != nil {
				log.Debug().Msg("provisioner disconnected")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		req, err := Decode(data)
		if err != nil {
			log.Warn().Err(err).Msg("undecodable request")
			if err := a.send(framer, sessionID, &ErrorMessage{Code: ErrCodeBadRequest, Message: err.Error()}); err != nil {
				return err
			}
			continue
		}
		a.logMessage(sessionID, plog.DirectionIn, req)

		resp := a.dispatch(ctx, req)
		resp.setID(req.ID())
		if err := a.send(framer, sessionID, resp); err != nil {
			return err
		}
	}
}

// ServeListener accepts connections from ln and serves them one at a time
// until ctx ends.
func (a *Agent) ServeListener(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		if err := a.Serve(ctx, conn); err != nil {
			a.logger.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("link session ended with error")
		}
	}
}

func (a *Agent) dispatch(ctx context.Context, req Message) Message {
	switch r := req.(type) {
	case *FirmwareRequest:
		v, current, err := a.handler.FirmwareReport(ctx, r.MinVersion)
		if err != nil {
			return errorResponse(err)
		}
		return &FirmwareReport{Version: v, Current: current}

	case *NetworksRequest:
		nets, err := a.handler.Networks(ctx, r.ConnectedOnly)
		if err != nil {
			return errorResponse(err)
		}
		if nets == nil {
			nets = []string{}
		}
		return &NetworksResponse{Networks: nets}

	case *AddressRequest:
		addr, err := a.handler.Address(ctx)
		if err != nil {
			return errorResponse(err)
		}
		return &AddressResponse{Address: addr}

	case *AddGatewayRequest:
		txn, err := a.handler.AddGateway(ctx, r.Owner, r.Payer)
		if err != nil {
			return errorResponse(err)
		}
		return &AddGatewayResponse{Transaction: txn}

	default:
		return &ErrorMessage{Code: ErrCodeBadRequest, Message: fmt.Sprintf("unexpected %s", req.Type())}
	}
}

func errorResponse(err error) *ErrorMessage {
	if errors.Is(err, provisioning.ErrDeviceWait) {
		return &ErrorMessage{Code: ErrCodeWait, Message: err.Error()}
	}
	return &ErrorMessage{Code: ErrCodeInternal, Message: err.Error()}
}

func (a *Agent) send(framer *Framer, sessionID string, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type(), err)
	}
	if err := framer.WriteFrame(data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Type(), err)
	}
	a.logMessage(sessionID, plog.DirectionOut, msg)
	return nil
}

func (a *Agent) logMessage(sessionID string, dir plog.Direction, msg Message) {
	a.events.Log(plog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: dir,
		Layer:     plog.LayerMessage,
		Category:  plog.CategoryMessage,
		LocalRole: plog.RoleHotspot,
		DeviceID:  a.deviceID,
		Message: &plog.MessageEvent{
			Type:      msg.Type().String(),
			RequestID: msg.ID(),
			Payload:   msg,
		},
	})
}

// isClosed reports whether err is the normal end of a stream.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}
