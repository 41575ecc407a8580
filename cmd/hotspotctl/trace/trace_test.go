package trace

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NebraLtd/maker-starter-app/pkg/log"
)

var base = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents() []log.Event {
	elapsed := 3 * time.Millisecond
	return []log.Event{
		{
			Timestamp: base,
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionOut,
			Layer:     log.LayerFrame,
			Category:  log.CategoryMessage,
			DeviceID:  "AA:BB:CC:DD:EE:FF",
			Frame:     &log.FrameEvent{Size: 12, Data: []byte{0xa1, 0x01}},
		},
		{
			Timestamp: base.Add(time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerMessage,
			Category:  log.CategoryMessage,
			DeviceID:  "AA:BB:CC:DD:EE:FF",
			Message: &log.MessageEvent{
				Type:      "networks_response",
				RequestID: 7,
				Payload:   map[string]any{"networks": []any{"home"}},
				Elapsed:   &elapsed,
			},
		},
		{
			Timestamp:     base.Add(2 * time.Millisecond),
			SessionID:     "def00000-1111",
			Layer:         log.LayerCoordinator,
			Category:      log.CategoryState,
			DeviceAddress: "11addr",
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityCoordinator,
				OldState: "Connecting",
				NewState: "CheckingFirmware",
			},
		},
		{
			Timestamp: base.Add(3 * time.Millisecond),
			SessionID: "def00000-1111",
			Layer:     log.LayerCoordinator,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerCoordinator, Message: "directory down", Kind: "directory"},
		},
		{
			Timestamp: base.Add(4 * time.Millisecond),
			SessionID: "def00000-1111",
			Layer:     log.LayerCoordinator,
			Category:  log.CategoryOutcome,
			Outcome:   &log.OutcomeEvent{Action: "add_gateway", Kind: "Failed", Duration: time.Second},
		},
	}
}

func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.plog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range sampleEvents() {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	output := buf.String()

	for _, want := range []string{"2026-01-28T10:15:32.123456Z", "[abc12345]", "OUT", "FRAME", "12 bytes", "a101", "AA:BB:CC:DD:EE:FF"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatMessageEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	if !strings.Contains(output, "networks_response") {
		t.Errorf("expected message type, got: %s", output)
	}
	if !strings.Contains(output, "RequestID: 7") {
		t.Errorf("expected request id, got: %s", output)
	}
	if !strings.Contains(output, "3.000ms") {
		t.Errorf("expected duration, got: %s", output)
	}
	if !strings.Contains(output, `"networks":["home"]`) {
		t.Errorf("expected payload, got: %s", output)
	}
}

func TestFormatStateAndOutcome(t *testing.T) {
	var buf bytes.Buffer
	events := sampleEvents()
	formatEvent(&buf, events[2])
	formatEvent(&buf, events[4])
	output := buf.String()

	if !strings.Contains(output, "Connecting -> CheckingFirmware") {
		t.Errorf("expected transition, got: %s", output)
	}
	if !strings.Contains(output, "(11addr)") {
		t.Errorf("expected device address, got: %s", output)
	}
	if !strings.Contains(output, "Action: add_gateway") {
		t.Errorf("expected outcome action, got: %s", output)
	}
}

func TestJSONSafe(t *testing.T) {
	in := map[any]any{uint64(1): []any{map[any]any{"a": 1}}}
	data, err := json.Marshal(jsonSafe(in))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"1":[{"a":1}]}` {
		t.Errorf("got %s", data)
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayer("Coordinator"); err != nil || l != log.LayerCoordinator {
		t.Errorf("ParseLayer = %v, %v", l, err)
	}
	if _, err := ParseLayer("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirection("IN"); err != nil || d != log.DirectionIn {
		t.Errorf("ParseDirection = %v, %v", d, err)
	}
	if c, err := ParseCategory("outcome"); err != nil || c != log.CategoryOutcome {
		t.Errorf("ParseCategory = %v, %v", c, err)
	}
	if _, err := ParseCategory("snapshot"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestRunView(t *testing.T) {
	path := writeTrace(t)

	var buf bytes.Buffer
	cat := log.CategoryState
	if err := RunView(path, ViewFilter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "CheckingFirmware") {
		t.Errorf("expected state event, got: %s", output)
	}
	if strings.Contains(output, "networks_response") {
		t.Errorf("filter let a message through: %s", output)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.plog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportJSONL(t *testing.T) {
	path := writeTrace(t)
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if err := export(reader, "jsonl", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sampleEvents()) {
		t.Fatalf("expected %d lines, got %d", len(sampleEvents()), len(lines))
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	path := writeTrace(t)
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if err := export(reader, "csv", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	output := buf.String()
	if !strings.HasPrefix(output, "timestamp,session_id,") {
		t.Errorf("missing header: %s", output)
	}
	if !strings.Contains(output, "networks_response,7") {
		t.Errorf("missing message row: %s", output)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := writeTrace(t)
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeTrace(t)
	out := filepath.Join(t.TempDir(), "filtered.plog")

	n, err := RunFilter(path, FilterOptions{Output: out, SessionID: "def00000-1111"})
	if err != nil {
		t.Fatalf("RunFilter: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}

	reader, err := log.NewReader(out)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()
	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events in output, got %d", len(events))
	}
}

func TestRunFilterBadTime(t *testing.T) {
	_, err := RunFilter("unused", FilterOptions{Output: "x", TimeStart: "yesterday"})
	if err == nil {
		t.Error("expected error for bad time")
	}
}

func TestRunStats(t *testing.T) {
	path := writeTrace(t)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Total Events: 5", "Sessions: 2", "Failed:", "Errors: 1", "Outcome: Failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in stats, got: %s", want, output)
		}
	}
}
