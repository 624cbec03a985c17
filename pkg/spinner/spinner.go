package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

type Spinner struct {
	chars    []string
	delay    time.Duration
	message  string
	out      io.Writer
	enabled  bool
	active   bool
	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// New returns a spinner on stderr that only animates when stderr is a
// terminal, so piped JSON output stays clean.
func New(message string) *Spinner {
	fd := os.Stderr.Fd()
	return NewWithWriter(os.Stderr, message, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func NewWithWriter(out io.Writer, message string, enabled bool) *Spinner {
	return &Spinner{
		chars:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay:   100 * time.Millisecond,
		message: message,
		out:     out,
		enabled: enabled,
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active || !s.enabled {
		return
	}
	s.active = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stopChan, s.done)
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		fmt.Fprintf(s.out, "\r%s %s", s.chars[i%len(s.chars)], s.message)
		s.mu.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", len(s.message)+10)+"\r")
	s.mu.Unlock()
}

func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}
