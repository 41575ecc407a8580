package link

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	plog "github.com/NebraLtd/maker-starter-app/pkg/log"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// MaxMessageSize is the largest accepted message body (64 KiB).
	MaxMessageSize = 65536

	// MaxTraceFrameData caps the frame bytes copied into trace events.
	MaxTraceFrameData = 4096
)

// Framing errors.
var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrMessageEmpty    = errors.New("message is empty")
	ErrFrameTruncated  = errors.New("frame truncated")
)

// Framer reads and writes length-prefixed frames. Writes are serialized;
// reads must come from one goroutine.
type Framer struct {
	rw      io.ReadWriter
	wmu     sync.Mutex
	lenBuf  [LengthPrefixSize]byte
	maxSize uint32

	events    plog.Logger
	sessionID string
	role      plog.Role
	deviceID  string
}

// NewFramer creates a framer over rw.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		rw:      rw,
		maxSize: MaxMessageSize,
		events:  plog.NoopLogger{},
	}
}

// SetTrace records every frame to events under sessionID.
func (f *Framer) SetTrace(events plog.Logger, sessionID string, role plog.Role, deviceID string) {
	f.events = plog.OrNoop(events)
	f.sessionID = sessionID
	f.role = role
	f.deviceID = deviceID
}

// WriteFrame writes one frame.
func (f *Framer) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if uint32(len(data)) > f.maxSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), f.maxSize)
	}

	buf := make([]byte, LengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[LengthPrefixSize:], data)

	f.wmu.Lock()
	_, err := f.rw.Write(buf)
	f.wmu.Unlock()
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	f.trace(data, plog.DirectionOut)
	return nil
}

// ReadFrame reads one frame and returns its body.
// It returns io.EOF if the stream ends cleanly between frames.
func (f *Framer) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(f.rw, f.lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("read length prefix: %w", err)
	}

	n := binary.BigEndian.Uint32(f.lenBuf[:])
	if n == 0 {
		return nil, ErrMessageEmpty
	}
	if n > f.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, n, f.maxSize)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(f.rw, body); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("read frame body: %w", err)
	}

	f.trace(body, plog.DirectionIn)
	return body, nil
}

func (f *Framer) trace(data []byte, dir plog.Direction) {
	if _, off := f.events.(plog.NoopLogger); off {
		return
	}

	ev := &plog.FrameEvent{Size: LengthPrefixSize + len(data)}
	if len(data) > MaxTraceFrameData {
		ev.Data = append([]byte(nil), data[:MaxTraceFrameData]...)
		ev.Truncated = true
	} else {
		ev.Data = append([]byte(nil), data...)
	}

	f.events.Log(plog.Event{
		Timestamp: time.Now(),
		SessionID: f.sessionID,
		Direction: dir,
		Layer:     plog.LayerFrame,
		Category:  plog.CategoryMessage,
		LocalRole: f.role,
		DeviceID:  f.deviceID,
		Frame:     ev,
	})
}
