package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingLogger captures log lines for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debug(msg string, keysAndValues ...any) { l.record("DEBUG", msg) }
func (l *recordingLogger) Info(msg string, keysAndValues ...any)  { l.record("INFO", msg) }
func (l *recordingLogger) Error(msg string, keysAndValues ...any) { l.record("ERROR", msg) }

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+": "+msg)
}

func newShellDispatcher(t *testing.T) (*Dispatcher, *recordingLogger) {
	logger := &recordingLogger{}
	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	return d, logger
}

func TestDispatcher_SyncHandlerReturnsResult(t *testing.T) {
	d, _ := newShellDispatcher(t)

	var gotArgs []string
	d.Register(":CLASSIFY:BEAT:", func(e Event) (any, error) {
		gotArgs = e.Args
		return "A", nil
	})

	result, err := d.Dispatch(Event{Command: ":CLASSIFY:BEAT:", Args: []string{"{\"beat\":1}"}})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(gotArgs) != 1 {
		t.Errorf("handler saw %d args, want 1", len(gotArgs))
	}
	if result != "A" {
		t.Errorf("expected classification result 'A', got %v", result)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newShellDispatcher(t)

	_, err := d.Dispatch(Event{Command: ":NO:SUCH:VERB:"})

	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), ":NO:SUCH:VERB:") {
		t.Errorf("error should name the command, got %v", err)
	}
}

func TestDispatcher_BufferedSaveQueue(t *testing.T) {
	d, _ := newShellDispatcher(t)

	var saved atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	d.Register(":SAVE:SEQUENCE:ASYNC:", func(e Event) (any, error) {
		saved.Add(1)
		wg.Done()
		return nil, nil
	}, Buffered(100))

	for i := 0; i < 3; i++ {
		result, err := d.Dispatch(Event{Command: ":SAVE:SEQUENCE:ASYNC:"})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "queued" {
			t.Errorf("shell should get 'queued' back, got %v", result)
		}
	}

	wg.Wait()

	if saved.Load() != 3 {
		t.Errorf("expected 3 saves drained, got %d", saved.Load())
	}
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d, _ := newShellDispatcher(t)

	// stall the drain goroutine so the queue fills
	block := make(chan struct{})
	d.Register(":METRIC:", func(e Event) (any, error) {
		<-block
		return nil, nil
	}, Buffered(2))

	d.Dispatch(Event{Command: ":METRIC:"}) // being processed
	d.Dispatch(Event{Command: ":METRIC:"}) // queued
	d.Dispatch(Event{Command: ":METRIC:"}) // queued

	_, err := d.Dispatch(Event{Command: ":METRIC:"})

	if err == nil {
		t.Error("expected drop error once the metric queue is full")
	}

	close(block)
}

func TestDispatcher_BlockingQueueWaits(t *testing.T) {
	d, _ := newShellDispatcher(t)

	block := make(chan struct{})
	d.Register(":SAVE:SEQUENCE:ASYNC:", func(e Event) (any, error) {
		<-block
		return nil, nil
	}, Buffered(1), Blocking())

	// first starts processing, second fills the queue
	d.Dispatch(Event{Command: ":SAVE:SEQUENCE:ASYNC:"})
	d.Dispatch(Event{Command: ":SAVE:SEQUENCE:ASYNC:"})

	done := make(chan struct{})
	go func() {
		d.Dispatch(Event{Command: ":SAVE:SEQUENCE:ASYNC:"})
		close(done)
	}()

	select {
	case <-done:
		t.Error("dispatch should have blocked instead of dropping")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newShellDispatcher(t)

	d.Register(":VERIFY:CAP:", func(e Event) (any, error) {
		return "ok", nil
	}, Logged())

	d.Dispatch(Event{Command: ":VERIFY:CAP:", Args: []string{"{}", "diamond"}})

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if len(logger.lines) < 2 {
		t.Errorf("expected handling and completion log lines, got %d", len(logger.lines))
	}
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newShellDispatcher(t)

	d.Register(":GENERATE:CAP:", func(e Event) (any, error) {
		return nil, errors.New("unknown variant")
	}, Logged())

	d.Dispatch(Event{Command: ":GENERATE:CAP:"})

	logger.mu.Lock()
	defer logger.mu.Unlock()

	hasError := false
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "ERROR") {
			hasError = true
			break
		}
	}
	if !hasError {
		t.Error("failed event should log at error level")
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newShellDispatcher(t)

	d.Register(":RESOLVE:ANCHOR:", func(e Event) (any, error) { return nil, nil })

	if !d.HasHandler(":RESOLVE:ANCHOR:") {
		t.Error("registered command not found")
	}
	if d.HasHandler(":APPLY:OVERRIDE:") {
		t.Error("unregistered command reported as handled")
	}
}

func TestDispatcher_BufferedAndLogged(t *testing.T) {
	d, logger := newShellDispatcher(t)

	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	d.Register(":SAVE:SEQUENCE:ASYNC:", func(e Event) (any, error) {
		processed.Add(1)
		wg.Done()
		return fmt.Sprintf("saved %s", e.Command), nil
	}, Buffered(100), Logged())

	result, err := d.Dispatch(Event{Command: ":SAVE:SEQUENCE:ASYNC:"})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "queued" {
		t.Errorf("expected 'queued', got %v", result)
	}

	wg.Wait()

	if processed.Load() != 1 {
		t.Errorf("expected 1 processed, got %d", processed.Load())
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if len(logger.lines) < 2 {
		t.Errorf("expected log lines from the logged wrapper, got %d", len(logger.lines))
	}
}
