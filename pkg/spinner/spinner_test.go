package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer so tests can read it while the spinner
// goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fastSpinner(out *syncBuffer, message string) *Spinner {
	s := NewWithWriter(out, message, true)
	s.delay = time.Millisecond
	return s
}

func TestNewWithWriter_Defaults(t *testing.T) {
	s := NewWithWriter(&syncBuffer{}, "Analyzing changes...", true)

	if s.message != "Analyzing changes..." {
		t.Errorf("message = %q", s.message)
	}
	if s.active {
		t.Error("a new spinner must not be running")
	}
	if len(s.chars) == 0 || s.delay <= 0 {
		t.Errorf("unexpected frames %v or delay %v", s.chars, s.delay)
	}
}

func TestSpinner_Lifecycle(t *testing.T) {
	out := &syncBuffer{}
	s := fastSpinner(out, "Writing 2 documentation target(s)...")

	s.Start()
	s.Start()
	if !s.active {
		t.Fatal("spinner should be running after Start")
	}
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop()
	if s.active {
		t.Fatal("spinner should be stopped after Stop")
	}

	got := out.String()
	if !strings.Contains(got, "Writing 2 documentation target(s)...") {
		t.Errorf("message never rendered: %q", got)
	}
	if !strings.HasPrefix(got, "\r") || !strings.HasSuffix(got, "\r") {
		t.Errorf("expected carriage-return framed output, got %q", got)
	}

	s.Start()
	if !s.active {
		t.Error("spinner should restart after being stopped")
	}
	s.Stop()
}

func TestSpinner_Disabled(t *testing.T) {
	out := &syncBuffer{}
	s := NewWithWriter(out, "hidden", false)

	s.Start()
	s.Update("still hidden")
	s.Stop()

	if s.active {
		t.Error("disabled spinner must never run")
	}
	if got := out.String(); got != "" {
		t.Errorf("disabled spinner wrote %q", got)
	}
}

func TestSpinner_Update(t *testing.T) {
	out := &syncBuffer{}
	s := fastSpinner(out, "Analyzing changes...")

	s.Start()
	s.Update("Writing 3 documentation target(s)...")
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Writing 3 documentation target(s)...") {
		t.Errorf("updated message never rendered: %q", out.String())
	}
	blank := strings.Repeat(" ", len("Writing 3 documentation target(s)...")+10)
	if !strings.HasSuffix(out.String(), "\r"+blank+"\r") {
		t.Error("Stop should blank the line using the current message width")
	}
}
