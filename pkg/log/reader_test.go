package log

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeTrace(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace", "test.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	now := time.Now()
	path := writeTrace(t, []Event{
		{Timestamp: now, SessionID: "s1", Layer: LayerFrame, Category: CategoryMessage},
		{Timestamp: now, SessionID: "s2", Layer: LayerMessage, Category: CategoryMessage},
		{Timestamp: now, SessionID: "s3", Layer: LayerCoordinator, Category: CategoryState},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	var got []string
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, e.SessionID)
	}

	if len(got) != 3 || got[0] != "s1" || got[2] != "s3" {
		t.Errorf("got sessions %v, want [s1 s2 s3]", got)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	path := writeTrace(t, []Event{
		{Timestamp: base, SessionID: "a", Layer: LayerFrame, Category: CategoryMessage, DeviceID: "d1"},
		{Timestamp: base.Add(time.Second), SessionID: "a", Layer: LayerCoordinator, Category: CategoryState, DeviceID: "d1", DeviceAddress: "addr1"},
		{Timestamp: base.Add(2 * time.Second), SessionID: "b", Layer: LayerCoordinator, Category: CategoryOutcome, DeviceID: "d2"},
		{Timestamp: base.Add(3 * time.Second), SessionID: "b", Layer: LayerMessage, Category: CategoryError, DeviceID: "d2", Direction: DirectionOut},
	})

	coord := LayerCoordinator
	errCat := CategoryError
	out := DirectionOut
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"session", Filter{SessionID: "a"}, 2},
		{"layer", Filter{Layer: &coord}, 2},
		{"category", Filter{Category: &errCat}, 1},
		{"direction", Filter{Direction: &out}, 1},
		{"device", Filter{DeviceID: "d2"}, 2},
		{"address", Filter{DeviceAddress: "addr1"}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{SessionID: "b", Layer: &coord}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			events, err := r.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := writeTrace(t, []Event{{SessionID: "first"}})

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if l.Path() != path {
		t.Errorf("Path() = %q, want %q", l.Path(), path)
	}
	l.Log(Event{SessionID: "second"})
	l.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	events, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestFileLoggerDropsOversizedEvents(t *testing.T) {
	path := writeTrace(t, []Event{
		{SessionID: "kept"},
		{SessionID: "dropped", Frame: &FrameEvent{Data: make([]byte, MaxEventSize)}},
		{SessionID: "also kept"},
	})

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	events, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].SessionID != "kept" || events[1].SessionID != "also kept" {
		t.Fatalf("got %+v", events)
	}
}

func TestFileLoggerConcurrentAndClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.plog")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				l.Log(Event{SessionID: "c", Frame: &FrameEvent{Size: j}})
			}
		}()
	}
	wg.Wait()

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	l.Log(Event{SessionID: "dropped"})

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	events, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 200 {
		t.Errorf("got %d events, want 200", len(events))
	}
}
