package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// MaxEventSize bounds one encoded trace event. Frame data is capped by the
// link layer well below this.
const MaxEventSize = 64 << 10

// Trace files may come from another host, so nesting and container sizes
// are limited when reading them back.
const (
	maxTraceNesting    = 16
	maxTraceContainers = 4096
)

// ErrEventTooLarge is returned by EncodeEvent for events over MaxEventSize.
var ErrEventTooLarge = errors.New("trace event too large")

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	var err error

	traceEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor encoder mode: %v", err))
	}

	// The writer never emits indefinite lengths or duplicate keys, so a
	// trace containing either is corrupt.
	traceDecMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxNestedLevels:  maxTraceNesting,
		MaxArrayElements: maxTraceContainers,
		MaxMapPairs:      maxTraceContainers,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor decoder mode: %v", err))
	}
}

// EncodeEvent encodes one trace record.
func EncodeEvent(event Event) ([]byte, error) {
	data, err := traceEncMode.Marshal(event)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxEventSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrEventTooLarge, len(data))
	}
	return data, nil
}

// DecodeEvent decodes exactly one trace record.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewDecoder returns a decoder for a stream of trace records.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
