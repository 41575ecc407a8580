// Package scan runs time-boxed discovery of nearby hotspots.
//
// A Session drives a Radio for a fixed window (DefaultDuration unless
// configured), collecting devices deduplicated by ID. Radio errors during
// the window are reported to the caller's error callback and never end the
// session early. Only one scan per Session may be active at a time.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
)

// DefaultDuration is the scan window.
const DefaultDuration = 6000 * time.Millisecond

// ErrScanActive is returned when Start is called during a scan.
var ErrScanActive = errors.New("scan already active")

// Radio is a discovery backend.
type Radio interface {
	// StartScan begins discovery and returns without waiting. found is
	// called for every sighting, possibly repeatedly for one device, and
	// onError for non-fatal problems. Discovery stops when ctx ends or
	// StopScan is called.
	StartScan(ctx context.Context, found func(hotspot.Device), onError func(error)) error

	// StopScan stops discovery. It must be safe to call after ctx ended.
	StopScan() error
}

// State is the session state.
type State uint8

const (
	// StateIdle means no scan is running.
	StateIdle State = iota
	// StateScanning means the window is open.
	StateScanning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateScanning:
		return "SCANNING"
	default:
		return "UNKNOWN"
	}
}

// Session is a reusable scan controller for one Radio.
type Session struct {
	radio    Radio
	duration time.Duration
	logger   zerolog.Logger
	events   plog.Logger

	mu      sync.Mutex
	state   State
	id      string
	devices map[string]hotspot.Device
	order   []string
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithDuration sets the scan window. Non-positive values keep the default.
func WithDuration(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithEventLogger sets the trace logger.
func WithEventLogger(l plog.Logger) Option {
	return func(s *Session) { s.events = plog.OrNoop(l) }
}

// NewSession creates an idle session.
func NewSession(radio Radio, opts ...Option) *Session {
	done := make(chan struct{})
	close(done)

	s := &Session{
		radio:    radio,
		duration: DefaultDuration,
		logger:   zerolog.Nop(),
		events:   plog.NoopLogger{},
		devices:  make(map[string]hotspot.Device),
		done:     done,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Duration returns the scan window.
func (s *Session) Duration() time.Duration {
	return s.duration
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start opens a scan window and returns immediately. Devices found by a
// previous scan are discarded. onError may be nil.
func (s *Session) Start(ctx context.Context, onError func(error)) error {
	s.mu.Lock()
	if s.state == StateScanning {
		s.mu.Unlock()
		return ErrScanActive
	}
	scanCtx, cancel := context.WithTimeout(ctx, s.duration)
	s.state = StateScanning
	s.id = uuid.NewString()
	s.devices = make(map[string]hotspot.Device)
	s.order = nil
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	report := s.reporter(onError)
	s.trace(StateIdle, StateScanning, "")
	s.logger.Debug().Dur("duration", s.duration).Msg("scan started")

	if err := s.radio.StartScan(scanCtx, s.found, report); err != nil {
		report(fmt.Errorf("start scan: %w", err))
	}

	go s.finish(scanCtx, done, report)
	return nil
}

// Stop ends the scan early and waits for the radio to stop. Calling Stop
// when idle does nothing. Do not call Stop from the onError callback.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Done is closed when the current (or last) scan window ends.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Devices returns the devices found so far, in first-seen order.
func (s *Session) Devices() []hotspot.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hotspot.Device, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.devices[id])
	}
	return out
}

// Run starts a scan, waits for the window to end and returns the devices.
// Canceling ctx ends the window early.
func (s *Session) Run(ctx context.Context, onError func(error)) ([]hotspot.Device, error) {
	if err := s.Start(ctx, onError); err != nil {
		return nil, err
	}
	<-s.Done()
	return s.Devices(), nil
}

func (s *Session) found(d hotspot.Device) {
	if d.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning {
		return
	}

	prev, seen := s.devices[d.ID]
	if !seen {
		s.order = append(s.order, d.ID)
		s.devices[d.ID] = d
		s.logger.Debug().Str("device_id", d.ID).Str("name", d.Name).Msg("hotspot found")
		return
	}
	if d.Name != "" {
		prev.Name = d.Name
	}
	if d.Address != "" {
		prev.Address = d.Address
	}
	if d.RSSI != 0 {
		prev.RSSI = d.RSSI
	}
	s.devices[d.ID] = prev
}

func (s *Session) reporter(onError func(error)) func(error) {
	return func(err error) {
		if err == nil {
			return
		}
		s.logger.Warn().Err(err).Msg("scan radio error")
		if onError != nil {
			onError(err)
		}
	}
}

func (s *Session) finish(ctx context.Context, done chan struct{}, report func(error)) {
	<-ctx.Done()

	if err := s.radio.StopScan(); err != nil {
		report(fmt.Errorf("stop scan: %w", err))
	}

	s.mu.Lock()
	s.state = StateIdle
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	count := len(s.order)
	s.mu.Unlock()

	reason := "window elapsed"
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = "stopped"
	}
	s.trace(StateScanning, StateIdle, reason)
	s.logger.Debug().Int("devices", count).Str("reason", reason).Msg("scan finished")

	close(done)
}

func (s *Session) trace(from, to State, reason string) {
	s.mu.Lock()
	id := s.id
	s.mu.Unlock()

	s.events.Log(plog.Event{
		Timestamp: time.Now(),
		SessionID: id,
		Layer:     plog.LayerCoordinator,
		Category:  plog.CategoryState,
		LocalRole: plog.RoleProvisioner,
		StateChange: &plog.StateChangeEvent{
			Entity:   plog.StateEntityScan,
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}
