// Package spinner draws a one-line progress indicator on a terminal.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// Spinner animates a message on a single line. The message can be changed
// while it runs.
type Spinner struct {
	w io.Writer

	mu      sync.Mutex
	message string
	width   int

	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// Start displays an animated spinner with the given message on w.
// Call Stop to stop the spinner and clear the line.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop stops the spinner and clears its line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-ticker.C:
			s.draw(frames[i%len(frames)])
			i++
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := frame + " " + s.message
	w := runewidth.StringWidth(line)
	pad := ""
	if w < s.width {
		// a shorter message must cover the previous one
		pad = strings.Repeat(" ", s.width-w)
	} else {
		s.width = w
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad) //nolint:errcheck
}
