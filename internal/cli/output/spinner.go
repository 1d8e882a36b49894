package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress on stderr while a long operation runs.
type Spinner struct {
	w      io.Writer
	msg    string
	styles *Styles

	mu     sync.Mutex
	active bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewSpinner creates a spinner bound to the renderer's stderr.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{
		w:      r.stderr,
		msg:    msg,
		styles: r.Styles(),
	}
}

// Start begins animating the spinner.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.done:
				// Clear the spinner line
				_, _ = fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(s.w, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.msg)
				frame++
			}
		}
	}()
}

// Success stops the spinner and prints a check line.
func (s *Spinner) Success(msg string) {
	s.stop()
	_, _ = fmt.Fprintln(s.w, s.styles.Success.Render("✓")+" "+msg)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.stop()
	_, _ = fmt.Fprintln(s.w, s.styles.Error.Render("✗")+" "+msg)
}

func (s *Spinner) stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()
}
