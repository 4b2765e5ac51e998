package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func newCapturedDispatcherLogger() (*DispatcherLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewDispatcherLogger(zerolog.New(&buf)), &buf
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestDispatcherLogger_Debug(t *testing.T) {
	dl, buf := newCapturedDispatcherLogger()

	dl.Debug("handling event", "command", ":CLASSIFY:BEAT:", "args", 1)

	entry := decodeLogLine(t, buf)
	if entry["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", entry["level"])
	}
	if entry["message"] != "handling event" {
		t.Errorf("expected message 'handling event', got %v", entry["message"])
	}
	if entry["command"] != ":CLASSIFY:BEAT:" {
		t.Errorf("expected command field, got %v", entry["command"])
	}
	if entry["args"] != float64(1) { // JSON numbers decode as float64
		t.Errorf("expected args=1, got %v", entry["args"])
	}
}

func TestDispatcherLogger_Info(t *testing.T) {
	dl, buf := newCapturedDispatcherLogger()

	dl.Info("backend ready", "type", "sqlite")

	entry := decodeLogLine(t, buf)
	if entry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", entry["level"])
	}
	if entry["message"] != "backend ready" {
		t.Errorf("expected message 'backend ready', got %v", entry["message"])
	}
	if entry["type"] != "sqlite" {
		t.Errorf("expected type='sqlite', got %v", entry["type"])
	}
}

func TestDispatcherLogger_Error(t *testing.T) {
	dl, buf := newCapturedDispatcherLogger()

	dl.Error("event failed", "command", ":VERIFY:CAP:", "beats", 4)

	entry := decodeLogLine(t, buf)
	if entry["level"] != "error" {
		t.Errorf("expected level 'error', got %v", entry["level"])
	}
	if entry["command"] != ":VERIFY:CAP:" {
		t.Errorf("expected command field, got %v", entry["command"])
	}
	if entry["beats"] != float64(4) {
		t.Errorf("expected beats=4, got %v", entry["beats"])
	}
}

func TestDispatcherLogger_NoKeyValues(t *testing.T) {
	dl, buf := newCapturedDispatcherLogger()

	dl.Debug("bare message")

	entry := decodeLogLine(t, buf)
	if entry["message"] != "bare message" {
		t.Errorf("expected message 'bare message', got %v", entry["message"])
	}
}

func TestDispatcherLogger_DropsDanglingKey(t *testing.T) {
	dl, buf := newCapturedDispatcherLogger()

	// odd-length key/value list: the trailing key has no value
	dl.Info("partial fields", "command", ":SAVE:SEQUENCE:", "orphan")

	entry := decodeLogLine(t, buf)
	if entry["command"] != ":SAVE:SEQUENCE:" {
		t.Errorf("paired field lost: %v", entry)
	}
	if _, ok := entry["orphan"]; ok {
		t.Error("dangling key should not be emitted")
	}
}

func TestDispatcherLogger_SatisfiesDispatcherInterface(t *testing.T) {
	dl, _ := newCapturedDispatcherLogger()

	// compile-time check against the interface the dispatcher expects
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = dl
}
