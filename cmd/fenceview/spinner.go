// spinner.go
package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

type Spinner struct {
	out      io.Writer
	frames   []rune
	interval time.Duration
	message  string
	start    sync.Once
	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:      out,
		frames:   spinnerFrames,
		interval: 120 * time.Millisecond,
		message:  message,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Spinner) Stop() {
	select {
	case <-s.stopCh:
		// Already stopped
		return
	default:
		close(s.stopCh)
	}
}

// Wait blocks until the spinner has cleared its line. It returns at once
// if Start was never called.
func (s *Spinner) Wait() {
	if !s.started {
		return
	}
	<-s.doneCh
}

func (s *Spinner) Start() {
	s.start.Do(func() {
		s.started = true
		go s.run()
	})
}

func (s *Spinner) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	frame := 0
	for {
		select {
		case <-s.stopCh:
			s.clearLine()
			return
		case <-ticker.C:
			fmt.Fprintf(s.out, "\r%c %s", s.frames[frame], s.message)
			frame = (frame + 1) % len(s.frames)
		}
	}
}

func (s *Spinner) clearLine() {
	// Clear the line: carriage return, spaces, carriage return
	clearLen := len(s.message) + 3 // frame + space + message
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", clearLen))
}
