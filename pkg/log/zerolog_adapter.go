package log

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter mirrors trace events to a zerolog logger at debug level
// (errors at warn level).
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates an adapter writing to logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug()
	if event.Error != nil {
		e = a.logger.Warn()
	}
	if !e.Enabled() {
		return
	}

	e = e.Str("session", event.SessionID).
		Str("layer", event.Layer.String()).
		Str("category", event.Category.String())

	if event.DeviceID != "" {
		e = e.Str("device_id", event.DeviceID)
	}
	if event.DeviceAddress != "" {
		e = e.Str("device_address", event.DeviceAddress)
	}

	switch {
	case event.Frame != nil:
		e = e.Str("direction", event.Direction.String()).
			Int("frame_size", event.Frame.Size).
			Bool("truncated", event.Frame.Truncated)
	case event.Message != nil:
		e = e.Str("direction", event.Direction.String()).
			Str("msg_type", event.Message.Type).
			Uint32("request_id", event.Message.RequestID)
		if event.Message.Elapsed != nil {
			e = e.Dur("elapsed", *event.Message.Elapsed)
		}
	case event.StateChange != nil:
		e = e.Str("entity", event.StateChange.Entity.String()).
			Str("old_state", event.StateChange.OldState).
			Str("new_state", event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			e = e.Str("reason", event.StateChange.Reason)
		}
	case event.Outcome != nil:
		e = e.Str("action", event.Outcome.Action).
			Str("outcome", event.Outcome.Kind).
			Dur("duration", event.Outcome.Duration)
		if event.Outcome.Detail != "" {
			e = e.Str("detail", event.Outcome.Detail)
		}
	case event.Error != nil:
		e = e.Str("error_layer", event.Error.Layer.String()).
			Str("error_msg", event.Error.Message).
			Str("error_kind", event.Error.Kind).
			Str("error_context", event.Error.Context)
	}

	e.Msg("trace")
}

var _ Logger = (*ZerologAdapter)(nil)
