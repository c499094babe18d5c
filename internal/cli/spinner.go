package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an activity indicator on stderr while a completion is in
// flight. It stays silent when the writer is not a terminal.
type Spinner struct {
	w       io.Writer
	enabled bool

	mu      sync.Mutex
	active  bool
	done    chan struct{}
	stopped chan struct{}
}

func NewSpinner(w io.Writer) *Spinner {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd())
	}
	return &Spinner{w: w, enabled: enabled}
}

// Start begins animating with the given message. No-op when already running
// or not attached to a terminal.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go func(done, stopped chan struct{}) {
		defer close(stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-done:
				fmt.Fprintf(s.w, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], message)
				frame++
			}
		}
	}(s.done, s.stopped)
}

// Stop clears the indicator and blocks until the line is erased.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	<-s.stopped
}
