package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/interrupt"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerIdle SpinnerState = iota
	SpinnerRunning
)

// DefaultSpinnerMessage is shown when NewSpinner gets an empty message.
const DefaultSpinnerMessage = "Loading…"

// SpinnerInterval is the delay between two animation frames.
const SpinnerInterval = 400 * time.Millisecond

// lineReset is wide enough to bring the cursor back to column 0 on any terminal.
const lineReset = 2000

// Spinner animation frames - braille scan pattern
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner displays an animated status indicator with a message on the
// current terminal line.
type Spinner struct {
	mu       sync.Mutex
	frames   []string
	message  string
	frame    int
	state    SpinnerState
	clock    clock.Clock
	ticker   *clock.Ticker
	stopChan chan struct{}
	doneChan chan struct{}
	output   func(string)
	watcher  *interrupt.Watcher
	watch    bool
}

// NewSpinner creates a spinner. Output defaults to fmt.Print; an empty
// message falls back to DefaultSpinnerMessage and no frames fall back to the
// braille set.
func NewSpinner(message string, frames ...string) *Spinner {
	if message == "" {
		message = DefaultSpinnerMessage
	}
	if len(frames) == 0 {
		frames = spinnerFrames
	}
	return &Spinner{
		frames:  frames,
		message: message,
		state:   SpinnerIdle,
		clock:   clock.New(),
		output:  func(s string) { fmt.Print(s) },
		watch:   true,
	}
}

// SetOutput sets the output function for the spinner.
// Useful for testing or redirecting output.
func (s *Spinner) SetOutput(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = fn
}

// SetClock replaces the clock driving the animation.
func (s *Spinner) SetClock(c clock.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// SetInterruptHandling controls whether Start installs a SIGINT handler that
// shows the cursor and exits.
func (s *Spinner) SetInterruptHandling(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch = enabled
}

// Start hides the cursor, draws the first frame and animates until Stop.
// Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SpinnerRunning {
		return
	}
	s.state = SpinnerRunning
	s.frame = 0
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.ticker = s.clock.Ticker(SpinnerInterval)

	s.output(ansi.Join(ansi.HideCursor, ansi.CursorLeft(lineReset), s.line()))

	if s.watch {
		s.watcher = interrupt.Watch(s.restoreCursor)
	}

	go s.animate(s.ticker, s.stopChan, s.doneChan)
}

// Stop halts the animation, clears the line and shows the cursor again.
// Stopping a spinner that is not running is a programming error and panics.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.state != SpinnerRunning {
		s.mu.Unlock()
		panic("ui: Spinner.Stop called before Spinner.Start")
	}
	s.state = SpinnerIdle
	s.ticker.Stop()
	close(s.stopChan)
	done := s.doneChan
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	<-done

	if watcher != nil {
		watcher.Stop()
	}

	s.mu.Lock()
	s.output(ansi.Join(ansi.ShowCursor, ansi.ClearLine(), ansi.CursorLeft(lineReset)))
	s.mu.Unlock()
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frame returns the index of the frame currently displayed.
func (s *Spinner) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Message returns the spinner's message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// SetMessage updates the message; it shows up on the next frame.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) animate(ticker *clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != SpinnerRunning {
				s.mu.Unlock()
				return
			}
			s.frame = (s.frame + 1) % len(s.frames)
			// one write per frame so the line never tears
			s.output(ansi.Join(ansi.ClearLine(), ansi.CursorLeft(lineReset), s.line()))
			s.mu.Unlock()
		}
	}
}

// line renders the current frame; callers hold s.mu.
func (s *Spinner) line() string {
	return ansi.Join(ansi.BrightBlue(s.frames[s.frame]), " ", ansi.DarkWhite(s.message))
}

func (s *Spinner) restoreCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output(ansi.ShowCursor + "\n")
}
